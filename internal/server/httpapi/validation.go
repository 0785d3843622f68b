package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type userIDParam struct {
	UserID string `uri:"userId" binding:"required,mongodb"`
}

type countryCodeParam struct {
	CountryCode string `uri:"countryCode" binding:"required,len=2,alpha"`
}

type publicHolidaysParams struct {
	Year        int    `uri:"year" binding:"required"`
	CountryCode string `uri:"countryCode" binding:"required,len=2,alpha"`
}

type addHolidaysRequest struct {
	CountryCode string   `json:"countryCode" binding:"required,len=2,alpha"`
	Year        int      `json:"year" binding:"required,min=2000,max=2050"`
	Holidays    []string `json:"holidays"`
}

var fieldMessages = map[string]string{
	"UserID/mongodb":       "Invalid user ID format",
	"UserID/required":      "Invalid user ID format",
	"CountryCode/len":      "Country code must be exactly 2 chars",
	"CountryCode/alpha":    "countryCode must contain only letters (a-zA-Z)",
	"CountryCode/required": "countryCode must be a string",
	"Year/min":             "Year to be at least 2000",
	"Year/max":             "Year to be at most 2050",
	"Year/required":        "year must be an integer number",
}

// writeValidationError answers binding failures with 400.
func writeValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Success: false,
		Message: validationMessage(err),
		Error:   http.StatusText(http.StatusBadRequest),
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if m, ok := fieldMessages[fe.Field()+"/"+fe.Tag()]; ok {
				msgs = append(msgs, m)
				continue
			}
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Malformed JSON body"
	}

	return err.Error()
}
