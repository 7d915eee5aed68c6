// Package websocket pushes notifications to browser clients connected on
// /ws. The stream is one-way: the server announces that the dataset was
// reloaded and clients refetch their views over the JSON API. Messages sent
// by clients are read only to keep the connection alive.
//
// A Hub owns the set of clients. Each Client runs a read pump and a write
// pump; slow clients whose buffer fills are dropped rather than blocking a
// broadcast.
package websocket
