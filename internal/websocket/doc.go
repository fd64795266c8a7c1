// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

/*
Package websocket pushes catalog changes to connected displays.

The package uses gorilla/websocket with a hub-client architecture:

	┌──────────┐
	│   Hub    │ ← catalog.Broadcaster
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Display1 │ Display2│ Display3│
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: reads display messages, answers ping with pong, extends the
    read deadline on every pong frame
  - writePump: drains the send queue and sends ping frames

Message Types:

  - mediaList: sent once on connect with the current snapshot
  - mediaUpdate: broadcast whenever the catalog snapshot changes
  - ping / pong: application-level heartbeat

Wire format:

	{"type": "mediaUpdate", "media": [{"name": "a_10.03.2025.jpg", ...}]}

Backpressure:

BroadcastMediaList never blocks. A full broadcast queue drops the message; a
client whose send queue is full is disconnected.

Usage:

	hub := websocket.NewHub(websocket.TimingFromConfig(cfg.WebSocket))
	go hub.RunWithContext(ctx)

	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn)
	greeting := func() websocket.Message {
		return websocket.MediaListMessage(catalog.Items())
	}
	if hub.Attach(r.Context(), client, greeting) {
		client.Start()
	}
*/
package websocket
