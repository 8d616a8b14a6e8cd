package webutils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/utils"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	io.Copy(w, in)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		utils.Channel(utils.ChannelWeb).Warnf("Error when writing response: %v", err)
	}
}

// WriteError responds with a JSON error body and status 400.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorCode(w, http.StatusBadRequest, err)
}

func WriteErrorCode(w http.ResponseWriter, code int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		utils.Channel(utils.ChannelWeb).Errorf("Error marshaling error '%v': %v", err, merr)
		return
	}
	utils.Channel(utils.ChannelWeb).Infof("HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteResult(w, data)
}

// IntVar parses a numeric mux path variable.
func IntVar(r *http.Request, name string, bits int) (int64, error) {
	s := mux.Vars(r)[name]
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, errors.Errorf("param %s '%s' is not integer", name, s)
	}
	return v, nil
}
