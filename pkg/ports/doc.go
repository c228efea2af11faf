/*
Package ports defines the driven ports (interfaces) of the intake engine.

These interfaces decouple the questionnaire engine from the systems around it,
so definitions, session state and orders can live in whatever backend a
deployment uses.

# Key Interfaces

  - DefinitionLoader: Retrieves question definitions (memory, files, Loam, the partner API).
  - StateStore: Persists and loads session State.
  - DistributedLocker: Coordinates concurrent access to a session across replicas.
  - OrderSubmitter: Hands a finalized order to the checkout backend.
*/
package ports
