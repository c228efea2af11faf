/*
Package session serializes access to stored questionnaire sessions.

The engine is single-caller and lock-free. Multi-caller surfaces (HTTP, MCP)
rehydrate a session per request through a Manager, which holds a per-session
in-process lock and, optionally, a distributed lock shared by every replica.
*/
package session
