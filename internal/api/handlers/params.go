package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ErrInvalidParam возвращается, когда path или query параметр не является положительным числом
var ErrInvalidParam = errors.New("handlers: invalid parameter")

// PathID читает положительный int64 из пути запроса
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(name, mux.Vars(r)[name])
}

// QueryID читает необязательный положительный int64 из query; пустое значение дает nil
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	id, err := parseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return id, nil
}
