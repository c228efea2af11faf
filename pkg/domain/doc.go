/*
Package domain contains the core domain models for the intake questionnaire engine.

It defines the question definitions supplied by configuration, the answers a
respondent accumulates, and the execution State the engine derives from them.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Question: An immutable definition (kind, options, visibility rules).
  - Rule / Requirement: AND-of-AND gates deciding whether a question is shown.
  - Answer: A scalar string or an ordered set of strings.
  - State: The runtime snapshot of a session (status, answers, visible questions).
  - Payload: The frozen answer map handed to order submission.
*/
package domain
