// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/qna-dev/qna/internal/qna"
)

var _ = Describe("Q&A API", Ordered, func() {
	var env *testEnv

	BeforeAll(func() {
		var err error
		env, err = setupTestEnv()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if env != nil {
			env.cleanup()
		}
	})

	BeforeEach(func() {
		Expect(env.reset()).To(Succeed())
	})

	Describe("Credential Manager", func() {
		creds := map[string]string{"email": "ada@example.com", "password": "correct horse"}

		It("registers once and rejects a duplicate email", func() {
			resp, err := env.doJSON(http.MethodPost, "/registration", "", creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(Equal("Account added"))

			resp, err = env.doJSON(http.MethodPost, "/registration", "", creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusUnprocessableEntity))
			Expect(resp.body).To(Equal("Account already exists"))
		})

		It("stores a salted hash, never the password", func() {
			_, err := env.doJSON(http.MethodPost, "/registration", "", creds)
			Expect(err).NotTo(HaveOccurred())

			var stored string
			Expect(env.pool.QueryRow(env.ctx,
				`SELECT password FROM accounts WHERE email = $1`, creds["email"]).Scan(&stored)).To(Succeed())
			Expect(stored).To(HavePrefix("$argon2id$"))
			Expect(stored).NotTo(ContainSubstring(creds["password"]))
		})

		It("answers wrong password and unknown email identically", func() {
			_, err := env.doJSON(http.MethodPost, "/registration", "", creds)
			Expect(err).NotTo(HaveOccurred())

			wrong, err := env.doJSON(http.MethodPost, "/login", "",
				map[string]string{"email": creds["email"], "password": "nope"})
			Expect(err).NotTo(HaveOccurred())
			unknown, err := env.doJSON(http.MethodPost, "/login", "",
				map[string]string{"email": "nobody@example.com", "password": "nope"})
			Expect(err).NotTo(HaveOccurred())

			Expect(wrong).To(Equal(unknown))
			Expect(wrong.status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Auth Gate and Authorization Check", func() {
		var aliceToken, bobToken string

		BeforeEach(func() {
			var err error
			aliceToken, err = env.login("alice@example.com", "alice-password")
			Expect(err).NotTo(HaveOccurred())
			bobToken, err = env.login("bob@example.com", "bob-password")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects protected routes without a valid token", func() {
			body := map[string]any{"title": "t", "content": "c"}
			for _, token := range []string{"", "garbage", "Bearer " + aliceToken} {
				resp, err := env.doJSON(http.MethodPost, "/questions", token, body)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.status).To(Equal(http.StatusUnauthorized), "token %q", token)
			}

			var count int
			Expect(env.pool.QueryRow(env.ctx, `SELECT count(*) FROM questions`).Scan(&count)).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("lets only the author change or delete a question", func() {
			resp, err := env.doJSON(http.MethodPost, "/questions", aliceToken,
				map[string]any{"title": "Why Go?", "content": "Asking for a friend", "tags": []string{"go"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(Equal("Question added"))

			update := map[string]any{"id": 1, "title": "Why not Go?", "content": "Still asking"}

			resp, err = env.doJSON(http.MethodPut, "/questions/1", bobToken, update)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusUnauthorized))
			Expect(resp.body).To(Equal("No permission to change the underlying resource"))

			resp, err = env.doJSON(http.MethodDelete, "/questions/1", bobToken, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusUnauthorized))

			resp, err = env.doJSON(http.MethodPut, "/questions/1", aliceToken, update)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))
			var q qna.Question
			Expect(json.Unmarshal([]byte(resp.body), &q)).To(Succeed())
			Expect(q.Title).To(Equal("Why not Go?"))

			resp, err = env.doJSON(http.MethodDelete, "/questions/1", aliceToken, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(Equal("Question 1 deleted"))

			resp, err = env.doJSON(http.MethodDelete, "/questions/1", aliceToken, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusNotFound))
		})

		It("records rejections by kind", func() {
			before := testutil.ToFloat64(env.metrics.RejectionsTotal.WithLabelValues("token_invalid"))
			_, err := env.doJSON(http.MethodDelete, "/questions/1", "", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(testutil.ToFloat64(env.metrics.RejectionsTotal.WithLabelValues("token_invalid"))).To(Equal(before + 1))
		})
	})

	Describe("Questions and answers", func() {
		var token string

		BeforeEach(func() {
			var err error
			token, err = env.login("carol@example.com", "carol-password")
			Expect(err).NotTo(HaveOccurred())
		})

		It("censors content through the filter", func() {
			resp, err := env.doJSON(http.MethodPost, "/questions", token,
				map[string]any{"title": "oh shoot", "content": "shoot, my build broke"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))

			resp, err = env.doJSON(http.MethodGet, "/questions/1", "", nil)
			Expect(err).NotTo(HaveOccurred())
			var q qna.Question
			Expect(json.Unmarshal([]byte(resp.body), &q)).To(Succeed())
			Expect(q.Title).To(Equal("oh *****"))
			Expect(q.Content).To(Equal("*****, my build broke"))
		})

		It("passes through a filter rejection", func() {
			resp, err := env.doJSON(http.MethodPost, "/questions", token,
				map[string]any{"title": "fine", "content": "this is too long"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusRequestEntityTooLarge))
		})

		It("pages through questions", func() {
			for i := 1; i <= 3; i++ {
				resp, err := env.doJSON(http.MethodPost, "/questions", token,
					map[string]any{"title": fmt.Sprintf("q%d", i), "content": "c"})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.status).To(Equal(http.StatusOK))
			}

			resp, err := env.doJSON(http.MethodGet, "/questions?limit=2&offset=1", "", nil)
			Expect(err).NotTo(HaveOccurred())
			var page []qna.Question
			Expect(json.Unmarshal([]byte(resp.body), &page)).To(Succeed())
			Expect(page).To(HaveLen(2))
			Expect(page[0].Title).To(Equal("q2"))

			resp, err = env.doJSON(http.MethodGet, "/questions?limit=2", "", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusBadRequest))
		})

		It("adds answers and cascades them on delete", func() {
			_, err := env.doJSON(http.MethodPost, "/questions", token,
				map[string]any{"title": "t", "content": "c"})
			Expect(err).NotTo(HaveOccurred())

			resp, err := env.doForm("/answers", token, url.Values{"content": {"an answer"}, "questionId": {"1"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusOK))
			Expect(resp.body).To(Equal("Answer added"))

			resp, err = env.doForm("/answers", token, url.Values{"content": {"orphan"}, "questionId": {"99"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.status).To(Equal(http.StatusNotFound))

			_, err = env.doJSON(http.MethodDelete, "/questions/1", token, nil)
			Expect(err).NotTo(HaveOccurred())

			var answers int
			Expect(env.pool.QueryRow(env.ctx, `SELECT count(*) FROM answers`).Scan(&answers)).To(Succeed())
			Expect(answers).To(BeZero())
		})
	})
})
