package apiutils

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/appenv"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/apperr"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/tracker"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/utils/mimes"
	"github.com/rs/zerolog"
)

type messageRes struct {
	Message string `json:"message"`
}

// WriteError sends {"message": err} with code. Only app errors are shown to
// the client, anything else is logged and replaced by a generic message.
func WriteError(ctx context.Context, w http.ResponseWriter, code int, err error) {
	zlog := *zerolog.Ctx(ctx)

	appErr := apperr.UnwrapAppErr(err)
	if appErr == nil {
		zlog.Error().Err(err).Int("code", code).Msg("WriteError: not an app error, hiding it from the client")
		appErr = apperr.UnwrapAppErr(apperr.ErrUnexpectedErrorOccurred)
	}

	zlog.Debug().Str("error_code", appErr.ErrorCode()).AnErr("cause", err).Msg("Sending error response")

	_writeJson(ctx, w, code, messageRes{Message: appErr.Error()}, true)
}

func WriteJson(ctx context.Context, w http.ResponseWriter, code int, payload any) {
	_writeJson(ctx, w, code, payload, appenv.IsStagOrLocal())
}

// WriteRawJson sends an already encoded JSON document as is.
func WriteRawJson(ctx context.Context, w http.ResponseWriter, code int, payload json.RawMessage) {
	w.Header().Set("Content-Type", mimes.App_json)
	w.WriteHeader(code)
	w.Write(payload)

	if appenv.IsStagOrLocal() {
		_logRes(ctx, code, payload, *zerolog.Ctx(ctx))
	}
}

func _writeJson(ctx context.Context, w http.ResponseWriter, code int, payload any, shouldLog bool) {
	zlog := *zerolog.Ctx(ctx)

	bytes, err := json.Marshal(payload)
	if err != nil {
		zlog.Error().Err(err).Any("payload", payload).Int("code", code).Msg("can not marshal payload in WriteJson")
		bytes = []byte(`{"message":"Unexpected error occurred"}`)
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", mimes.App_json)
	w.WriteHeader(code)
	w.Write(bytes)

	if shouldLog {
		_logRes(ctx, code, payload, zlog)
	}
}

func _logRes(ctx context.Context, code int, payload any, zerolog zerolog.Logger) {
	logEvent := zerolog.Info().Any("payload", payload).Int("code", code)
	reqId, ok := tracker.ReqUUIDFromContext(ctx)
	if ok {
		logEvent.Str(tracker.ReqIdStrKey, reqId.String())
	}
	logEvent.CallerSkipFrame(99999999) // so it dose not print the file:line_num in the log. we do not need those
	logEvent.Msg("Res")
}
