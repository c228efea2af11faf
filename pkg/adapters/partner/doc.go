// Package partner talks to the checkout backend that owns session configuration
// and order processing.
//
// The backend serves the questionnaire attached to a checkout session at
// GET {base}/intake/session?sid=<key> and accepts finished orders at
// POST {base}/intake/process. Client implements both ports.DefinitionLoader
// (the ref is the session key) and ports.OrderSubmitter.
package partner
