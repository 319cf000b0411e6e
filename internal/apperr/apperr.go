package apperr

import (
	"encoding/json"
	"errors"
)

func IsAppErr(err error) bool {
	return UnwrapAppErr(err) != nil
}

func UnwrapAppErr(err error) *AppErr {
	for {
		appErr, ok := err.(*AppErr)
		if ok {
			return appErr
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
			if err == nil {
				return nil
			}
		case interface{ Unwrap() []error }:
			for _, err := range x.Unwrap() {
				e := UnwrapAppErr(err)
				if e != nil {
					return e
				}
			}
			return nil
		default:
			return nil
		}
	}
}

// AppErr is an error that is safe to show to the client. Its message is sent
// as is, the code is only used for logs and tracing.
type AppErr struct {
	err       error
	errorCode string
}

func (err AppErr) Error() string { return err.err.Error() }

func (err AppErr) Unwrap() error { return err.err }

func (err AppErr) ErrorCode() string { return err.errorCode }

func (e AppErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"message": e.Error()})
}

func NewAppErrWithErrorCode(err error, errorCode string) error {
	return &AppErr{
		err:       err,
		errorCode: errorCode,
	}
}

// -------------------------------------------

var (
	ErrUnexpectedErrorOccurred = NewAppErrWithErrorCode(errors.New("Unexpected error occurred"), "res_1")
	ErrTooManyRequests         = NewAppErrWithErrorCode(errors.New("Too many requests, please try again later."), "res_2")
	ErrUnsupportedRoute        = NewAppErrWithErrorCode(errors.New("Unsupported Route"), "res_3")
	ErrInvalidRemoteAddr       = NewAppErrWithErrorCode(errors.New("can not parse the RemoteAddr"), "res_4")
	ErrGatewayTimeout          = NewAppErrWithErrorCode(errors.New("The movie service took too long to respond"), "res_5")

	// movie
	ErrNoMovieTitle       = NewAppErrWithErrorCode(errors.New("No movie title provided!"), "movie_1")
	ErrSomethingWentWrong = NewAppErrWithErrorCode(errors.New("Something went wrong"), "movie_2")
	ErrMovieServiceDown   = NewAppErrWithErrorCode(errors.New("Unable to reach the movie service"), "movie_3")
)
