// Package ws streams the fleet snapshot to WebSocket clients.
//
// The Hub upgrades connections on /ws/stream, sends the current snapshot
// immediately on connect, and rebroadcasts it to every client on a fixed
// interval. Slow clients whose send buffer fills up are disconnected rather
// than allowed to stall the broadcast.
package ws
