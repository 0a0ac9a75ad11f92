package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *flowFieldAPI) writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *flowFieldAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := errorResponse{Error: errorBody{Code: http.StatusText(status), Message: message}}
	if err := api.writeJSON(w, status, resp, nil); err != nil {
		api.log.Error("failed writing error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *flowFieldAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *flowFieldAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.Error(err), zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

func (api *flowFieldAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (api *flowFieldAPI) ConflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (api *flowFieldAPI) RequestTimeoutResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusRequestTimeout, err.Error())
}

// getStatusCode. map util.Error codes and context errors to a response.
func (api *flowFieldAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		api.RequestTimeoutResponse(w, r, err)
		return
	}

	var ierr *util.Error
	if !errors.As(err, &ierr) {
		api.ServerErrorResponse(w, r, err)
		return
	}

	switch ierr.Code() {
	case util.ErrBadParamInput:
		api.BadRequestResponse(w, r, ierr)
	case util.ErrNotFound:
		api.NotFoundResponse(w, r, ierr)
	case util.ErrConflict:
		api.ConflictResponse(w, r, ierr)
	default:
		api.ServerErrorResponse(w, r, ierr)
	}
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []error{err}
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// validateRequest. run struct validation and flatten the translated messages into one error.
func (api *flowFieldAPI) validateRequest(req interface{}) error {
	if err := api.validate.Struct(req); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}
