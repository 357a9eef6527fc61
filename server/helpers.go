package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/pcea-st-andrews/stands-ims/server/auth"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pcea-st-andrews/stands-ims/server/people"
)

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func writeFormErrors(rw http.ResponseWriter, formErrors people.FormErrors) {
	logg.Info(formErrors)

	rw.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(rw).Encode(ResponsePayload{FormErrors: formErrors})
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// pageParam reads the 'page' query param, defaulting to the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

func personFromForm(form *people.PersonForm) *models.Person {
	person := &models.Person{
		Username:    form.Username,
		FullName:    form.FullName,
		Gender:      form.Gender,
		PhoneNumber: form.PhoneNumber,
	}

	// Validation guarantees a parseable dob on the create paths.
	if dob, ok := form.DobTime(); ok {
		person.Dob = &dob
	}

	return person
}

func RegisterValidators(validate *validator.Validate) error {
	return validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		// if whitespace in password return false
		err := validate.Var(fl.Field().String(), "contains= ")
		if err == nil {
			return false
		}
		return len(fl.Field().String()) > 0
	})
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

func decodeAndVerifyAuthHeader(authHeaderValue string) DecodedJWT {
	authHeaderList := strings.Split(authHeaderValue, "Bearer ")
	if len(authHeaderList) < 2 {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	tokenClaims, err := auth.DecodeJWT(authHeaderList[1], authKeyPair)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	// validate that the user account still exists
	_, err = models.FindUserBy("id", tokenClaims.Subject)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	return DecodedJWT{Claims: tokenClaims}
}

// requestClaims returns the verified token claims attached to the request
// context, or nil for an unauthenticated request.
func requestClaims(r *http.Request) *auth.StandsTokenClaims {
	decodedJWT, ok := r.Context().Value(RequestContextKey("decodedJWT")).(DecodedJWT)
	if !ok {
		return nil
	}

	return decodedJWT.Claims
}

// requestUserID returns the authenticated account's id, or 0 when there
// is none.
func requestUserID(r *http.Request) uint {
	claims := requestClaims(r)
	if claims == nil {
		return 0
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0
	}

	return uint(id)
}
