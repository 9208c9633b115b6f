package webutils

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, err)
	} else {
		WriteResult(w, res)
	}
}

func WriteResult(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Error when writing response: %v", err)
	}
}

// WriteError reports recoverable "not resolvable" outcomes as a JSON
// payload with status 200. Consumers poll these endpoints every tick;
// a missing transform is data, not a server failure.
func WriteError(w http.ResponseWriter, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	WriteResult(w, data)
}

func ReadJsonBody(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return errors.Errorf("Invalid http method %q", r.Method)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal request body")
	}
	return nil
}

// QueryInt64 parses an int64 query parameter, falling back to def
// when the parameter is absent.
func QueryInt64(r *http.Request, key string, def int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "param %q is not an integer", key)
	}
	return v, nil
}

func QueryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "param %q is not a number", key)
	}
	return v, nil
}
