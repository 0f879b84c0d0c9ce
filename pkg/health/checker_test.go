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

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLenProbe struct{ n int }

func (f fakeLenProbe) Len() int { return f.n }

func TestCheckAllReadyWhenAllProbesSucceed(t *testing.T) {
	c := NewChecker(fakeLenProbe{1}, fakeLenProbe{2}, fakeLenProbe{3})

	report := c.CheckAll()
	assert.True(t, report.Ready)
	assert.Len(t, report.Checks, 3)
	assert.Equal(t, StatusHealthy, report.Checks["registry"].Status)
}

func TestCheckAllNotReadyWhenAProbeFails(t *testing.T) {
	c := NewChecker(fakeLenProbe{}, fakeLenProbe{}, fakeLenProbe{})
	c.RegisterCheck("sessions", func(ctx context.Context) error {
		return errors.New("sessions store unavailable")
	})

	report := c.CheckAll()
	assert.False(t, report.Ready)
	assert.Equal(t, StatusHealthy, report.Checks["registry"].Status)
	assert.Equal(t, StatusUnhealthy, report.Checks["sessions"].Status)
}

func TestCheckUnregisteredNameIsUnhealthy(t *testing.T) {
	c := NewChecker(fakeLenProbe{}, fakeLenProbe{}, fakeLenProbe{})

	result := c.Check(context.Background(), "nonexistent")
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Contains(t, result.Message, "not registered")
}

func TestRegisterCheckOverridesDefaultProbe(t *testing.T) {
	c := NewChecker(fakeLenProbe{}, fakeLenProbe{}, fakeLenProbe{})

	c.RegisterCheck("registry", func(ctx context.Context) error {
		return errors.New("registry unavailable")
	})

	report := c.CheckAll()
	assert.False(t, report.Ready)
	assert.Equal(t, StatusUnhealthy, report.Checks["registry"].Status)
	assert.Equal(t, "registry unavailable", report.Checks["registry"].Message)
}
