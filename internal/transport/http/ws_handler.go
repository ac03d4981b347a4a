package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"iqscalar-assessment-service/internal/app"
	"iqscalar-assessment-service/internal/domain"
)

// WSHandler runs one test or practice attempt per connection.
type WSHandler struct {
	service   *app.AssessmentService
	timeLimit time.Duration
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(service *app.AssessmentService, timeLimit time.Duration, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service:   service,
		timeLimit: timeLimit,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Position    int  `json:"position"`
	OptionIndex *int `json:"optionIndex"`
}

type answerRecorded struct {
	Position int `json:"position"`
	Answered int `json:"answered"`
}

type resultPayload struct {
	TimedOut bool `json:"timedOut"`
	domain.ScoredResult
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades the request, allocates an attempt and scores it on submit
// or, in test mode, when the time limit elapses.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	mode := domain.Mode(q.Get("mode"))
	if mode == "" {
		mode = domain.ModeTest
	}
	if userID == "" || (mode != domain.ModeTest && mode != domain.ModePractice) {
		http.Error(w, "missing userId or invalid mode", http.StatusBadRequest)
		return
	}
	count := 0
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid count", http.StatusBadRequest)
			return
		}
		count = n
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var attempt domain.Attempt
	if mode == domain.ModeTest {
		attempt, err = h.service.StartTest(ctx, userID, count)
	} else {
		attempt, err = h.service.StartPractice(ctx, userID, q.Get("category"), count)
	}
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	started := time.Now()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write error", "attempt", attempt.ID, "error", err)
				failed = true
			}
		}
	}()

	inbound := make(chan inboundMessage)
	stopReading := make(chan struct{})
	go func() {
		defer close(inbound)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-stopReading:
				return
			}
		}
	}()

	var deadline <-chan time.Time
	if mode == domain.ModeTest && h.timeLimit > 0 {
		timer := time.NewTimer(h.timeLimit)
		defer timer.Stop()
		deadline = timer.C
	}

	send <- outboundMessage[any]{Type: "attempt", Payload: newAttemptView(attempt, h.timeLimit)}

	answers := make([]*int, len(attempt.Questions))
	submitted := h.run(ctx, attempt, answers, started, inbound, deadline, send)
	if !submitted {
		if err := h.service.Abandon(context.WithoutCancel(ctx), attempt.ID); err != nil {
			h.logger.Warn("abandon attempt failed", "attempt", attempt.ID, "error", err)
		}
	}

	close(stopReading)
	close(send)
	<-writerDone
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}

// run processes client messages until the attempt is scored or the client goes away.
func (h *WSHandler) run(ctx context.Context, attempt domain.Attempt, answers []*int, started time.Time,
	inbound <-chan inboundMessage, deadline <-chan time.Time, send chan<- outboundMessage[any]) bool {
	answered := 0
	for {
		select {
		case <-deadline:
			return h.submit(ctx, attempt.ID, answers, started, true, send)
		case msg, ok := <-inbound:
			if !ok {
				return false
			}
			switch msg.Type {
			case "answer":
				var payload answerPayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					send <- errorMessage("invalid answer payload")
					continue
				}
				if payload.Position < 1 || payload.Position > len(answers) {
					send <- errorMessage("position out of range")
					continue
				}
				q := attempt.Questions[payload.Position-1]
				if payload.OptionIndex != nil && (*payload.OptionIndex < 0 || *payload.OptionIndex >= len(q.Options)) {
					send <- errorMessage("option out of range")
					continue
				}
				if answers[payload.Position-1] == nil && payload.OptionIndex != nil {
					answered++
				} else if answers[payload.Position-1] != nil && payload.OptionIndex == nil {
					answered--
				}
				answers[payload.Position-1] = payload.OptionIndex
				send <- outboundMessage[any]{Type: "answerRecorded", Payload: answerRecorded{
					Position: payload.Position,
					Answered: answered,
				}}
			case "submit":
				return h.submit(ctx, attempt.ID, answers, started, false, send)
			default:
				send <- errorMessage("unsupported message type")
			}
		}
	}
}

func (h *WSHandler) submit(ctx context.Context, attemptID string, answers []*int, started time.Time, timedOut bool, send chan<- outboundMessage[any]) bool {
	result, err := h.service.Submit(ctx, attemptID, answers, time.Since(started))
	if err != nil {
		send <- errorMessage(err.Error())
		return false
	}
	send <- outboundMessage[any]{Type: "result", Payload: resultPayload{TimedOut: timedOut, ScoredResult: result}}
	return true
}
