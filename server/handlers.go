package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"github.com/pcea-st-andrews/stands-ims/server/auth"
	"github.com/pcea-st-andrews/stands-ims/server/auth/key"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pcea-st-andrews/stands-ims/server/people"
	"github.com/pcea-st-andrews/stands-ims/server/work"
	"gorm.io/gorm"
)

type ResponsePayload struct {
	Errors     []string          `json:"errors,omitempty"`
	FormErrors people.FormErrors `json:"form_errors,omitempty"`
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Paging     *models.Paging    `json:"paging,omitempty"`
}

func healthCheck(rw http.ResponseWriter, r *http.Request) {
	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

// ---------------------------------------------------------------------------------//
// People handlers
// --------------------------------------------------------------------------------//

func peopleIndex(rw http.ResponseWriter, r *http.Request) {
	results, paging, err := models.FetchPeople(r.URL.Query().Get("q"), pageParam(r))
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: results, Paging: paging})
}

func createPerson(rw http.ResponseWriter, r *http.Request) {
	form := people.PersonForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.Validate(models.Directory{}, time.Now())
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	person := personFromForm(&form)
	if err := models.CreatePerson(person); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: person}, http.StatusCreated)
}

func createAdult(rw http.ResponseWriter, r *http.Request) {
	form := people.AdultForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.Validate(models.Directory{}, time.Now())
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	person := personFromForm(&form.PersonForm)
	if err := models.CreatePerson(person); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: person}, http.StatusCreated)
}

func createChild(rw http.ResponseWriter, r *http.Request) {
	form := people.ChildForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	// When the registering account claims the child as theirs, their own
	// person record has to exist before anything is written.
	var parent *models.Person
	if form.IsParent {
		user, err := models.FindUserBy("id", requestUserID(r))
		if err != nil {
			writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
			return
		}

		parent, err = user.LinkedPerson()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeResponse(rw,
				ResponsePayload{Errors: []string{"your account has no person record to register the child under"}},
				http.StatusBadRequest)
			return
		}
		if err != nil {
			writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
			return
		}
	}

	formErrors, err := form.Validate(models.Directory{}, time.Now())
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	child := personFromForm(&form.PersonForm)
	if err := models.CreatePerson(child); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if parent != nil {
		creatorID := requestUserID(r)
		err = models.CreateRelationship(&models.InterpersonalRelationship{
			PersonID:    parent.ID,
			RelativeID:  child.ID,
			Relation:    people.PARENT_CHILD,
			CreatedByID: &creatorID,
		})
		if err != nil {
			writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
			return
		}
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: child}, http.StatusCreated)
}

func registerSelf(rw http.ResponseWriter, r *http.Request) {
	user, err := models.FindUserBy("id", requestUserID(r))
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	_, err = user.LinkedPerson()
	if err == nil {
		writeResponse(rw,
			ResponsePayload{Errors: []string{"your account already has a person record"}},
			http.StatusBadRequest)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	form := people.AdultForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.Validate(models.Directory{}, time.Now())
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	person := personFromForm(&form.PersonForm)
	person.UserID = &user.ID
	if err := models.CreatePerson(person); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: person}, http.StatusCreated)
}

func findPerson(rw http.ResponseWriter, r *http.Request) {
	person, err := models.FindPersonBy("username", mux.Vars(r)["username"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{"person": person}
	if age, err := person.AgeToday(time.Now()); err == nil {
		data["age"] = age
		if category, err := people.AgeCategory(age); err == nil {
			data["age_category"] = category
		}
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: data})
}

func updatePerson(rw http.ResponseWriter, r *http.Request) {
	person, err := models.FindPersonBy("username", mux.Vars(r)["username"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	form := people.PersonForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.ValidateUpdate(models.Directory{}, time.Now(), person.Username)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	updated := personFromForm(&form)
	err = person.Update(map[string]interface{}{
		"username":     updated.Username,
		"full_name":    updated.FullName,
		"gender":       updated.Gender,
		"dob":          updated.Dob,
		"phone_number": updated.PhoneNumber,
	})
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

// ---------------------------------------------------------------------------------//
// Relationship handlers
// --------------------------------------------------------------------------------//

func relationshipsIndex(rw http.ResponseWriter, r *http.Request) {
	results, paging, err := models.FetchRelationships(pageParam(r))
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: results, Paging: paging})
}

func createRelationship(rw http.ResponseWriter, r *http.Request) {
	form := people.RelationshipForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.Validate(models.Directory{})
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	saveRelationship(rw, r, &form)
}

func createParentChildRelationship(rw http.ResponseWriter, r *http.Request) {
	form := people.ParentChildForm{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	formErrors, err := form.Validate(models.Directory{})
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !formErrors.IsEmpty() {
		writeFormErrors(rw, formErrors)
		return
	}

	saveRelationship(rw, r, form.RelationshipForm())
}

// saveRelationship resolves a validated form's usernames to ids and
// persists the record, stamping the creating account.
func saveRelationship(rw http.ResponseWriter, r *http.Request, form *people.RelationshipForm) {
	person, err := models.FindPersonBy("username", form.Person)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	relative, err := models.FindPersonBy("username", form.Relative)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	creatorID := requestUserID(r)
	relationship := &models.InterpersonalRelationship{
		PersonID:    person.ID,
		RelativeID:  relative.ID,
		Relation:    form.Relation,
		CreatedByID: &creatorID,
	}

	if err := models.CreateRelationship(relationship); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: relationship}, http.StatusCreated)
}

// ---------------------------------------------------------------------------------//
// Temperature record handlers
// --------------------------------------------------------------------------------//

func temperatureRecordsIndex(rw http.ResponseWriter, r *http.Request) {
	results, paging, err := models.FetchTemperatureRecords(r.URL.Query().Get("q"), pageParam(r))
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: results, Paging: paging})
}

func createTemperatureRecord(rw http.ResponseWriter, r *http.Request) {
	person, err := models.FindPersonBy("username", mux.Vars(r)["username"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	data := models.TemperatureRecord{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	creatorID := requestUserID(r)
	record := &models.TemperatureRecord{
		PersonID:        person.ID,
		BodyTemperature: data.BodyTemperature,
		CreatedByID:     &creatorID,
	}

	if errs := validate.Struct(record); errs != nil {
		writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
		return
	}

	if err := models.CreateTemperatureRecord(record); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if record.IsFeverish() {
		err = workerAdapter.Perform(work.JobParams{
			Name:    fmt.Sprintf("fever-alert-%v", record.ID),
			Handler: feverAlertHandlerName,
			Args: map[string]interface{}{
				"username":         person.Username,
				"body_temperature": record.BodyTemperature,
			},
		})
		if err != nil {
			logg.Errorf("unable to enqueue fever alert for %v: %v", person.Username, err)
		}
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: record}, http.StatusCreated)
}

// ---------------------------------------------------------------------------------//
// Account handlers
// --------------------------------------------------------------------------------//

func createUser(rw http.ResponseWriter, r *http.Request) {
	data := models.User{}

	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	if errs := validate.Struct(data); errs != nil {
		writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
		return
	}

	if err := models.CreateUser(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusCreated)
}

func findUser(rw http.ResponseWriter, r *http.Request) {
	user, err := models.FindUserBy("id", mux.Vars(r)["uid"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: user})
}

func updateUser(rw http.ResponseWriter, r *http.Request) {
	user, err := models.FindUserBy("id", mux.Vars(r)["uid"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	data := make(map[string]interface{})
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	removeUnknownFields(data, map[string]bool{"first_name": true, "last_name": true, "password": true})
	if len(data) <= 0 {
		writeResponse(rw, ResponsePayload{Errors: []string{"valid fields required"}}, http.StatusBadRequest)
		return
	}

	if data["password"] != nil && strings.TrimSpace(fmt.Sprintf("%v", data["password"])) == "" {
		writeResponse(rw, ResponsePayload{Errors: []string{"password cannot be empty"}}, http.StatusBadRequest)
		return
	}

	if err := user.Update(data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

func deleteUser(rw http.ResponseWriter, r *http.Request) {
	if err := models.DeleteUser(mux.Vars(r)["uid"]); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

func logIn(rw http.ResponseWriter, r *http.Request) {
	data := make(map[string]string)
	json.NewDecoder(r.Body).Decode(&data)

	passwordHash, err := models.FindUserPassword(data["email"])
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if !auth.CheckPasswordHash(data["password"], passwordHash) {
		writeResponse(rw, ResponsePayload{Errors: []string{"email/password is invalid"}}, http.StatusUnauthorized)
		return
	}

	user, err := models.FindUserBy("email", data["email"])
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	isAdmin, err := user.IsAdmin()
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	token, err := newSignedToken(user, isAdmin)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: map[string]string{"token": token}})
}

func jwks(rw http.ResponseWriter, r *http.Request) {
	publicJWK, err := authKeyPair.JWK()
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(key.ExportJWKAsJWKS(publicJWK))
}

func jobsStats(rw http.ResponseWriter, r *http.Request) {
	stats, err := models.CurrentJobsStats()
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: stats})
}

func newSignedToken(user *models.User, isAdmin bool) (string, error) {
	claims := auth.StandsTokenClaims{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   isAdmin,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	return auth.EncodeJWT(claims, authKeyPair)
}
