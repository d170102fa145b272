/*
Package ports defines the contracts between the verdict core and its collaborators.

These interfaces decouple condition evaluation from concrete value hosts, data type
services and storage backends.

# Key Interfaces

  - ValueHost: read access to one named value, plus the item cache used by conditions.
  - Resolver: name lookup of value hosts and access to the shared Services.
  - Comparer / Converter: data type aware comparison and conversion services.
  - StateStore: persists manager snapshots between requests or processes.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
