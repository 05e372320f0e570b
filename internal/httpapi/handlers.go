// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/qna"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v. Any decoding failure is MalformedInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.MalformedInput(err)
	}
	return nil
}

// parseID parses a row id. Ids are int4 columns, so anything outside 32 bits
// cannot name a row and is rejected as unparseable.
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, apperr.InvalidParameter(name, err)
	}
	return id, nil
}

func questionIDParam(r *http.Request) (qna.QuestionID, error) {
	id, err := parseID("id", mux.Vars(r)["id"])
	if err != nil {
		return 0, err
	}
	return qna.QuestionID(id), nil
}

// outcome labels an auth attempt for metrics.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return apperr.KindOf(err).String()
}

func (a *API) register(w http.ResponseWriter, r *http.Request) error {
	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		a.metrics.RecordAuthAttempt("register", outcome(err))
		return err
	}
	_, err := a.accounts.Register(r.Context(), creds)
	a.metrics.RecordAuthAttempt("register", outcome(err))
	if err != nil {
		return err
	}
	writeText(w, http.StatusOK, "Account added")
	return nil
}

func (a *API) login(w http.ResponseWriter, r *http.Request) error {
	var creds auth.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		a.metrics.RecordAuthAttempt("login", outcome(err))
		return err
	}
	token, err := a.accounts.Login(r.Context(), creds)
	a.metrics.RecordAuthAttempt("login", outcome(err))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, token)
}

func (a *API) listQuestions(w http.ResponseWriter, r *http.Request) error {
	page, err := qna.ExtractPagination(r.URL.Query())
	if err != nil {
		return err
	}
	questions, err := a.questions.ListQuestions(r.Context(), page)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, questions)
}

func (a *API) getQuestion(w http.ResponseWriter, r *http.Request) error {
	id, err := questionIDParam(r)
	if err != nil {
		return err
	}
	q, err := a.questions.GetQuestion(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, q)
}

func (a *API) addQuestion(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	var nq qna.NewQuestion
	if err := decodeJSON(w, r, &nq); err != nil {
		return err
	}
	if _, err := a.questions.AddQuestion(r.Context(), sess, nq); err != nil {
		return err
	}
	writeText(w, http.StatusOK, "Question added")
	return nil
}

func (a *API) updateQuestion(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	id, err := questionIDParam(r)
	if err != nil {
		return err
	}
	var uq qna.UpdateQuestion
	if err := decodeJSON(w, r, &uq); err != nil {
		return err
	}
	q, err := a.questions.UpdateQuestion(r.Context(), sess, id, uq)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, q)
}

func (a *API) deleteQuestion(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	id, err := questionIDParam(r)
	if err != nil {
		return err
	}
	if err := a.questions.DeleteQuestion(r.Context(), sess, id); err != nil {
		return err
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Question %d deleted", id))
	return nil
}

// addAnswer reads a form-encoded body with content and questionId.
func (a *API) addAnswer(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return apperr.MalformedInput(err)
	}
	if !r.PostForm.Has("questionId") {
		return apperr.MissingParameter("questionId")
	}
	questionID, err := parseID("questionId", r.PostForm.Get("questionId"))
	if err != nil {
		return err
	}

	na := qna.NewAnswer{Content: r.PostForm.Get("content"), QuestionID: qna.QuestionID(questionID)}
	if _, err := a.questions.AddAnswer(r.Context(), sess, na); err != nil {
		return err
	}
	writeText(w, http.StatusOK, "Answer added")
	return nil
}
