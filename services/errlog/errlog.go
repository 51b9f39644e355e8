// Package errlog ships unexpected render-time failures to the EduSpace
// error-collection endpoint. Reporting is fire-and-forget: a sink failure is
// surfaced locally in debug mode only and never propagates to the caller.
package errlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/eduspace/web/core"
)

type payload struct {
	EventID   string                 `json:"eventId"`
	Error     string                 `json:"error"`
	Stack     *string                `json:"stack"`
	ErrorInfo map[string]interface{} `json:"errorInfo"`
	Timestamp string                 `json:"timestamp"`
}

type Sink struct {
	url   string
	http  *http.Client
	log   core.Logger
	debug bool
}

func NewSink(conf *core.Config, log core.Logger) *Sink {
	return &Sink{
		url:   conf.BaseAPIURL + "/api/logs/error",
		http:  &http.Client{Timeout: 10 * time.Second},
		log:   log,
		debug: conf.Debug,
	}
}

// Report posts err to the collection endpoint. The where tag names the screen
// or layer the error escaped from.
func (s *Sink) Report(ctx context.Context, err error, where string) {
	// %+v renders the wrapped stack trace when the error carries one
	stack := fmt.Sprintf("%+v", err)
	p := payload{
		EventID:   uuid.New().String(),
		Error:     err.Error(),
		Stack:     &stack,
		ErrorInfo: map[string]interface{}{"context": where},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	body, mErr := json.Marshal(p)
	if mErr != nil {
		s.local(mErr)
		return
	}
	req, rErr := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if rErr != nil {
		s.local(rErr)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	res, dErr := s.http.Do(req)
	if dErr != nil {
		s.local(dErr)
		return
	}
	_, _ = io.Copy(ioutil.Discard, res.Body)
	_ = res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		s.local(fmt.Errorf("error sink responded %d", res.StatusCode))
	}
}

func (s *Sink) local(err error) {
	if s.debug {
		s.log.Debug("failed to log error to server", err)
	}
}
