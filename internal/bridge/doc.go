// Package bridge implements the control bridge: the sole channel between the
// UI process and the privileged process. The contract is a fixed set of named
// operations in two styles, two-way requests correlated by ID and one-way
// fire-and-forget notifications, carried as JSON messages over a single
// websocket connection. The UI side never touches disk or OS window controls
// directly; everything state-affecting crosses this boundary.
package bridge
