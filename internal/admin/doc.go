// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package admin holds the school administration domain: schools, groups,
// subjects, students, teachers, classes, tasks, and grades, plus the
// scale-to-grade conversion used for scored assessments.
package admin
