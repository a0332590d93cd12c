// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resource packages. Requests are
// bound and validated with the gin binding package, and errors are
// reported as JSON objects. Binding errors map each field name to its
// error messages, while use case errors carry their cerr kind and
// detail.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/log"
)

// Bind binds the request into req using the b binding and validates
// it. On errors, a 400 response is written and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	return bindErr(c, c.ShouldBindWith(req, b))
}

func bindErr(c *gin.Context, err error) bool {
	switch err := err.(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"kind":   cerr.KindInternal.String(),
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"kind":   cerr.KindBadRequest.String(),
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// PathID parses the name path parameter as a UUID. On errors, a 400
// response is written and false is returned.
func PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string][]string{
			name: {"Path param " + name + " is not UUID."},
		})
		return uuid.Nil, false
	}
	return id, true
}

// OptUUID parses s as a UUID, unless it is empty. Parsing errors are
// recorded in errs for the name field.
func OptUUID(errs *map[string][]string, name, s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if !Assert(errs, err == nil, name, "The "+name+" is not UUID.") {
		return nil
	}
	return &id
}

// OptParse parses s with the parse function, unless it is empty which
// yields the zero value. Parsing errors are recorded in errs.
func OptParse[T any](
	errs *map[string][]string, name, s string,
	parse func(string) (T, error),
) (v T) {
	if s == "" {
		return
	}
	v, err := parse(s)
	if err != nil {
		AddErr(errs, name, err.Error())
	}
	return
}

// Invalid writes errs as a 400 response if it is not empty and
// reports if it was written.
func Invalid(c *gin.Context, errs map[string][]string) bool {
	if errs == nil {
		return false
	}
	c.JSON(http.StatusBadRequest, errs)
	return true
}

// SerErr writes err as a JSON object with its kind and detail. The
// HTTP status code is taken from the cerr.Error in the err chain and
// defaults to 500.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"kind":   ce.Kind.String(),
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c, "request failed", log.Err("err", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"kind":   cerr.KindInternal.String(),
		"detail": err.Error(),
	})
}
