package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"codeclass/internal/live"
	"codeclass/internal/service"
)

// keepAliveInterval spaces SSE comments on idle streams
const keepAliveInterval = 25 * time.Second

// LiveHandler serves the timetable, the live room and the event stream
type LiveHandler struct {
	classService  *service.ClassService
	roomService   *service.RoomService
	lessonService *service.LessonService
	broker        *live.Broker
}

// NewLiveHandler creates a new live handler
func NewLiveHandler(classService *service.ClassService, roomService *service.RoomService, lessonService *service.LessonService, broker *live.Broker) *LiveHandler {
	return &LiveHandler{
		classService:  classService,
		roomService:   roomService,
		lessonService: lessonService,
		broker:        broker,
	}
}

// Classes returns the upcoming timetable
func (h *LiveHandler) Classes(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classService.Upcoming(time.Now())
	if err != nil {
		respondServiceError(w, r, "Error listing classes", err)
		return
	}
	respondJSON(w, http.StatusOK, classes)
}

// Room returns the live-room pointer
func (h *LiveHandler) Room(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomService.Get()
	if err != nil {
		respondServiceError(w, r, "Error loading live room", err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// Join issues a classroom ticket for the running session
func (h *LiveHandler) Join(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.roomService.Join(GetAccountFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, r, "Error joining live room", err)
		return
	}
	respondJSON(w, http.StatusOK, ticket)
}

// VerifyTicket lets the classroom page confirm a ticket
func (h *LiveHandler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims, err := h.roomService.VerifyTicket(token)
	if err != nil {
		respondServiceError(w, r, "Error verifying ticket", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accountId":   claims.Subject,
		"roomId":      claims.RoomID,
		"displayName": claims.DisplayName,
		"host":        claims.Host,
	})
}

// Stream pushes snapshots of the account, lessons, timetable and live room
// as server-sent events. Each event replaces the client's copy of its topic.
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	accountTopic := live.AccountTopic(account.ID)

	// Subscribe before loading so no update between the two is missed
	sub := h.broker.Subscribe(accountTopic, live.TopicLessons, live.TopicClasses, live.TopicLive)
	defer sub.Cancel()

	snapshots, err := h.loadSnapshots(accountTopic, account)
	if err != nil {
		respondServiceError(w, r, "Error loading stream snapshots", err)
		return
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("Stream write deadline not adjustable: %v", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	for _, ev := range snapshots {
		if err := writeEvent(w, eventName(ev.Topic, accountTopic), ev.Data); err != nil {
			log.Printf("Error writing initial snapshots: %v", err)
			return
		}
	}
	if err := rc.Flush(); err != nil {
		log.Printf("Streaming unsupported: %v", err)
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, eventName(ev.Topic, accountTopic), ev.Data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// loadSnapshots reads the current value of every streamed topic
func (h *LiveHandler) loadSnapshots(accountTopic string, account interface{}) ([]live.Event, error) {
	lessons, err := h.lessonService.List()
	if err != nil {
		return nil, err
	}
	classes, err := h.classService.Upcoming(time.Now())
	if err != nil {
		return nil, err
	}
	room, err := h.roomService.Get()
	if err != nil {
		return nil, err
	}

	values := []struct {
		topic string
		value interface{}
	}{
		{accountTopic, account},
		{live.TopicLessons, lessons},
		{live.TopicClasses, classes},
		{live.TopicLive, room},
	}
	snapshots := make([]live.Event, 0, len(values))
	for _, v := range values {
		data, err := json.Marshal(v.value)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, live.Event{Topic: v.topic, Data: data})
	}
	return snapshots, nil
}

// eventName hides the account ID from the event name
func eventName(topic, accountTopic string) string {
	if topic == accountTopic {
		return "account"
	}
	return topic
}

func writeEvent(w http.ResponseWriter, name string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
