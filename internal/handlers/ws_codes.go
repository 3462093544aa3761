// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game handlers. These give
// clients a more specific reason for closure than the standard codes.
// Unknown game IDs are rejected before the upgrade with a plain HTTP status,
// so they need no code here.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	InvalidUserIDError    = 3002 // Authenticated user is not seated in the game.
)
