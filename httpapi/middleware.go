// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package httpapi

import (
	"net/http"
	"strings"

	"github.com/agentreg/didreg/protocol"
	"github.com/agentreg/didreg/session"
)

const bearerPrefix = "Bearer "

// requireSession wraps a handler that needs an authenticated session,
// resolving the Authorization header before calling through. A missing
// header, or one without the "Bearer " prefix, is Unauthorized; a token
// that fails to decode, names an unknown session, or names an aged-out
// session is reported as SessionExpired — the three cases are not told
// apart, since the store alone can't tell which case it was once the
// row is gone.
func (s *Server) requireSession(next func(http.ResponseWriter, *http.Request, session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			writeError(w, protocol.New(protocol.Unauthorized, "missing or malformed bearer token"))
			return
		}
		token := strings.TrimPrefix(header, bearerPrefix)

		sess, ok := s.auth.Resolve(token)
		if !ok {
			writeError(w, protocol.New(protocol.SessionExpired, "session not found or expired"))
			return
		}
		next(w, r, sess)
	}
}
