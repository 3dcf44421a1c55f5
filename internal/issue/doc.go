// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and Markdown guidance for the
// failures a user can run into while bootstrapping modules.
package issue
