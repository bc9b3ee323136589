package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const headerCorrelationId string = "Correlation-Id"

var errConfirmInvalid = errors.New("confirm must be true or false")

func getCorrelationId(request *http.Request) string {
	if correlationId := request.Header.Get(headerCorrelationId); correlationId != "" {
		return correlationId
	}
	return internal.GenerateId()
}

func readJson(request *http.Request, item any) error {
	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, item)
}

// confirmFromParams returns nil when the confirm parameter is absent
func confirmFromParams(request *http.Request) (*bool, error) {
	s := request.URL.Query().Get(data.ParameterConfirm)
	if s == "" {
		return nil, nil
	}
	confirm, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.Wrap(errConfirmInvalid, s)
	}
	return &confirm, nil
}

// errorStatusCode maps an error to the status code of the console response
func errorStatusCode(err error) int {
	var statusError *client.StatusError
	var validationErrors validator.ValidationErrors
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, logic.ErrEmployeeNotFound),
		errors.Is(err, logic.ErrCourseNotFound),
		errors.Is(err, logic.ErrNoCourseEditor):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrCourseCodeExists),
		errors.Is(err, logic.ErrNoDeletePending),
		errors.Is(err, logic.ErrNoEdit),
		errors.Is(err, logic.ErrNoAdd),
		errors.Is(err, logic.ErrCourseEditorClosed),
		errors.Is(err, cache.ErrGenerationStale):
		return http.StatusConflict
	case errors.As(err, &validationErrors),
		errors.As(err, &syntaxError),
		errors.As(err, &typeError),
		errors.Is(err, logic.ErrCourseCodeImmutable),
		errors.Is(err, logic.ErrFieldReadOnly),
		errors.Is(err, logic.ErrInvalidPage),
		errors.Is(err, logic.ErrInvalidPageSize),
		errors.Is(err, data.ErrUnknownField),
		errors.Is(err, errConfirmInvalid):
		return http.StatusBadRequest
	case errors.As(err, &statusError):
		return http.StatusBadGateway
	}
}

func handleResponse(writer http.ResponseWriter, err error, items ...interface{}) {
	var bytes []byte

	if err == nil {
		switch {
		default:
			bytes, err = json.Marshal(items[0])
		case len(items) <= 0 || items[0] == nil:
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	if err != nil {
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(errorStatusCode(err))
		bytes, err = json.Marshal(&data.Error{Error: err.Error()})
		if err != nil {
			fmt.Printf("error handling response: %s\n", err)
			return
		}
		if _, err := writer.Write(bytes); err != nil {
			fmt.Printf("error handling response: %s\n", err)
		}
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := writer.Write(bytes); err != nil {
		fmt.Printf("error handling response: %s\n", err)
	}
}

// statusRecorder keeps the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	s.statusCode = statusCode
	s.ResponseWriter.WriteHeader(statusCode)
}
