// SPDX-FileCopyrightText: 2022-2026 The go-utlmail Authors
//
// SPDX-License-Identifier: MIT

package utlmail

import (
	"context"
	"errors"
	"fmt"
	"os/user"
)

// ErrPermissionDenied is returned if the permission check of a Mailer rejects a send.
var ErrPermissionDenied = errors.New("permission denied")

// PermissionFunc decides whether the caller behind ctx may send mail. A non-nil error rejects the send.
type PermissionFunc func(ctx context.Context) error

// AllowUsers returns a PermissionFunc that only permits the given operating system users. An empty
// list permits everybody.
func AllowUsers(users ...string) PermissionFunc {
	return allowUsers(currentUsername, users)
}

func allowUsers(lookup func() (string, error), users []string) PermissionFunc {
	allowed := make(map[string]struct{}, len(users))
	for _, u := range users {
		allowed[u] = struct{}{}
	}
	return func(context.Context) error {
		if len(allowed) == 0 {
			return nil
		}
		name, err := lookup()
		if err != nil {
			return fmt.Errorf("failed to look up current user: %w", err)
		}
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("user %q is not allowed to send mail", name)
		}
		return nil
	}
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
