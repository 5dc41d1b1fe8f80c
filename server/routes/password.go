// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/requests"
	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

var errEmptyPassword = errors.New("password must not be empty")

// PasswordPage renders the password hashing form.
func PasswordPage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")

	return views.Document(tr(r, "hash_password_title"), views.Password(views.PasswordData{})).Render(r.Context(), w)
}

// HashPassword hashes the posted password for the backend's configuration
// file and renders the result or the failure.
func HashPassword(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")

	password := strings.TrimSpace(utils.GetFormValue(r, "password"))

	var (
		pageData views.PasswordData
		hash     string
		err      error
	)

	switch {
	case password == "":
		err = errEmptyPassword
	case config.Global.Feature.LocalPasswordHash:
		hash, err = hashLocally(password)
	default:
		var cookies map[string]string
		if s := session.FromContext(r.Context()); s != nil {
			cookies = s.BackendCookies()
		}

		hash, err = Backend.HashPassword(r.Context(), cookies, password)
	}

	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Password hashing failed")

		pageData.ErrorDetails = errorJSON(err)
	} else {
		pageData.Hash = hash
	}

	return views.Document(tr(r, "hash_password_title"), views.Password(pageData)).Render(r.Context(), w)
}

func hashLocally(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	// PHP's password_verify expects the $2y$ prefix.
	return "$2y$" + strings.TrimPrefix(string(hash), "$2a$"), nil
}

// errorJSON describes err as a JSON object, including the backend's
// status code and message when there is one.
func errorJSON(err error) string {
	details := map[string]any{"message": err.Error()}

	var apiErr *requests.APIError
	if errors.As(err, &apiErr) {
		details["status"] = apiErr.StatusCode
		details["error"] = apiErr.Message
	}

	out, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		return err.Error()
	}

	return string(out)
}
