package server

import (
	"caesar/internal/caesar"
	"caesar/internal/ctxlog"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
)

// Number of leading characters described by the mapping details.
const mappingLimit = 10

type api struct {
	maxTextBytes int
}

type transformRequest struct {
	Text    string `json:"text"`
	Shift   int    `json:"shift"`
	Details bool   `json:"details"`
}

type transformResponse struct {
	Text      string           `json:"text"`
	Shift     int              `json:"shift"`
	Direction caesar.Direction `json:"direction"`
	Stats     caesar.Stats     `json:"stats"`
	Mapping   []caesar.Pair    `json:"mapping,omitempty"`
}

type bruteForceRequest struct {
	Text string `json:"text"`
	Rank bool   `json:"rank"`
}

type candidate struct {
	Shift     int      `json:"shift"`
	Plaintext string   `json:"plaintext"`
	Score     *float64 `json:"score,omitempty"`
}

type bruteForceResponse struct {
	Candidates []candidate `json:"candidates"`
	Best       *candidate  `json:"best,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

type aboutResponse struct {
	About    string `json:"about"`
	MinShift int    `json:"minShift"`
	MaxShift int    `json:"maxShift"`
}

// decode reads a JSON body into v and enforces the text size limit.
// It writes the error response itself and reports whether the handler may continue.
func (a *api) decode(w http.ResponseWriter, r *http.Request, v any, text func() string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, int64(2*a.maxTextBytes+1024))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("malformed request: %v", err))
		return false
	}

	if n := len(text()); n > a.maxTextBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("text is %d bytes, limit is %d", n, a.maxTextBytes))
		return false
	}
	return true
}

func (a *api) transform(dir caesar.Direction) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transformRequest
		if !a.decode(w, r, &req, func() string { return req.Text }) {
			return
		}

		log := ctxlog.Get(r.Context())
		if strings.TrimSpace(req.Text) == "" {
			log.Warn("empty input", "direction", dir)
		}

		out, err := caesar.Transform(req.Text, req.Shift, dir)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		resp := transformResponse{
			Text:      out,
			Shift:     req.Shift,
			Direction: dir,
			Stats:     caesar.Analyze(req.Text),
		}
		if req.Details {
			resp.Mapping, err = caesar.Mapping(req.Text, req.Shift, dir, mappingLimit)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
		}

		log.Debug("transformed text", "direction", dir, "shift", req.Shift, "len", len(req.Text))
		writeJSON(w, r, http.StatusOK, resp)
	})
}

func score(s float64) *float64 {
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return nil
	}
	return &s
}

func (a *api) bruteForce() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req bruteForceRequest
		if !a.decode(w, r, &req, func() string { return req.Text }) {
			return
		}

		log := ctxlog.Get(r.Context())
		if strings.TrimSpace(req.Text) == "" {
			log.Warn("empty input")
		}

		candidates := caesar.BruteForce(req.Text)

		resp := bruteForceResponse{
			Candidates: make([]candidate, 0, len(candidates)),
		}
		if !req.Rank {
			for _, c := range candidates {
				resp.Candidates = append(resp.Candidates, candidate{Shift: c.Shift, Plaintext: c.Plaintext})
			}
		} else {
			for _, c := range caesar.Rank(candidates) {
				resp.Candidates = append(resp.Candidates, candidate{Shift: c.Shift, Plaintext: c.Plaintext, Score: score(c.Score)})
			}
			if best, ok := caesar.Guess(req.Text); ok {
				resp.Best = &candidate{Shift: best.Shift, Plaintext: best.Plaintext, Score: score(best.Score)}
			}
		}

		log.Debug("brute forced text", "len", len(req.Text), "rank", req.Rank)
		writeJSON(w, r, http.StatusOK, resp)
	})
}

func (a *api) stats() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !a.decode(w, r, &req, func() string { return req.Text }) {
			return
		}
		writeJSON(w, r, http.StatusOK, caesar.Analyze(req.Text))
	})
}

func (a *api) about() http.Handler {
	resp := aboutResponse{
		About:    caesar.About,
		MinShift: caesar.MinShift,
		MaxShift: caesar.MaxShift,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, resp)
	})
}
