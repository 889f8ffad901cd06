package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// MessageEvent is one inbound chat event delivered by the platform bridge.
type MessageEvent struct {
	MessageID    string `json:"message_id"`
	SenderID     string `json:"sender_id"`
	LauncherType string `json:"launcher_type"` // "group" or "person"
	LauncherID   string `json:"launcher_id"`
	Message      string `json:"message"`
}

// MessageReply is the response for a handled command.
type MessageReply struct {
	MessageID string `json:"message_id"`
	Reply     string `json:"reply"`
}

// HandleMessage accepts a chat event, applies the access filter and the
// command prefix, and dispatches matching commands to the engine. Events the
// plugin does not handle are acknowledged with 204 and no reply.
func (app *Application) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var ev MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if ev.SenderID == "" {
		http.Error(w, "Missing sender_id", http.StatusBadRequest)
		return
	}
	if ev.MessageID == "" {
		ev.MessageID = uuid.NewString()
	}

	if !app.Access.Allow(ev.LauncherType, ev.LauncherID) {
		app.Logger.Info("message ignored by access control",
			"session", ev.LauncherType+"_"+ev.LauncherID, "message_id", ev.MessageID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Commands may arrive with a leading slash, e.g. "/jw v".
	msg := strings.TrimLeft(strings.TrimSpace(ev.Message), "/")
	tokens := strings.Fields(msg)
	if len(tokens) == 0 || tokens[0] != app.Config.CommandPrefix {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	reply := app.Engine.Execute(r.Context(), ev.SenderID, tokens[1:])

	resp := MessageReply{MessageID: ev.MessageID, Reply: reply}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
