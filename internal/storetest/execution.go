package storetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

func newReader(body []byte) io.Reader {
	return bytes.NewReader(body)
}

func writeJson(writer http.ResponseWriter, statusCode int, item any) {
	bytes, err := json.Marshal(item)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(bytes)
}
