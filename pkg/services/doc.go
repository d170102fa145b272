/*
Package services provides default implementations of the data type services consumed by
conditions: a Converter that turns values into primitives named by a lookup key, and a
Comparer that relates two values after optional conversion.

Applications with their own data types register extra lookup keys on the Converter.
*/
package services
