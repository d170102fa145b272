/*
Package domain contains the core data model of the verdict validation engine.

It defines the values exchanged between conditions, value hosts and the validation
manager. The package is kept pure and free of I/O so that state snapshots can be
persisted and restored by any adapter.

# Key Entities

  - TriState: the outcome of a single condition (Match, NoMatch, Undetermined).
  - ValueHostDescriptor: immutable configuration for one named value and its validators.
  - ValueHostState: the snapshot of one value host, replaced wholesale on every update.
  - Issue: a failing validator reported against a value host.
  - BusinessLogicError: an externally supplied error merged into the same reporting surface.
*/
package domain
