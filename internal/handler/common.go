package handler // handler defines the HTTP handlers of the ledger API

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kakao-ledger/internal/middleware"
	"github.com/iliyamo/kakao-ledger/internal/model"
	"github.com/iliyamo/kakao-ledger/internal/repository"
)

var errUnauthorized = errors.New("unauthorized")

// validationError marks a request the client must fix; it maps to 400.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func invalid(msg string) error { return validationError{msg: msg} }

// Errors maps handler errors onto HTTP responses.  With Hide set (prod) a
// storage failure only reports which operation failed.
type Errors struct {
	Hide bool
}

// respond writes the JSON error body for err.  op names the failed
// operation ("fetch transactions"); notFound is the 404 message.
func (e Errors) respond(c echo.Context, op, notFound string, err error) error {
	var ve validationError
	switch {
	case errors.Is(err, errUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.msg})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound})
	}

	slog.Error("request failed", "op", op, "path", c.Path(), "error", err)
	msg := "failed to " + op
	if !e.Hide {
		msg += ": " + err.Error()
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// getSession returns the session SessionAuth attached to the request.
func getSession(c echo.Context) (model.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return model.Session{}, errUnauthorized
	}
	return s, nil
}

// resourceID picks the target id from the path, then the query string,
// then the already-decoded body.
func resourceID(c echo.Context, fromBody string) string {
	for _, v := range []string{c.Param("id"), c.QueryParam("id"), fromBody} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
