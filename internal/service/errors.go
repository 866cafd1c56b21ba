package service

import (
	apperr "github.com/sakib-101-git/EDU-ClassRepo/pkg/errors"
)

// ── auth ──

var (
	ErrMissingFields        = apperr.New(apperr.KindValidation, 10001, "missing required fields")
	ErrLoginFieldsRequired  = apperr.New(apperr.KindValidation, 10001, "email and password are required")
	ErrEmailDomain          = apperr.New(apperr.KindDomain, 10101, "email domain not allowed")
	ErrWeakPassword         = apperr.New(apperr.KindWeakPassword, 10102, "password too short")
	ErrEmailTaken           = apperr.New(apperr.KindDuplicateEmail, 10103, "email already registered")
	ErrAccountNotFound      = apperr.New(apperr.KindNotFound, 10104, "invalid email or password")
	ErrInvalidCredentials   = apperr.New(apperr.KindInvalidCredentials, 10105, "invalid email or password")
	ErrUnverifiedAccount    = apperr.New(apperr.KindUnverifiedAccount, 10106, "please verify your email before logging in")
	ErrNotAdmin             = apperr.New(apperr.KindRoleMismatch, 10107, "access denied: not an admin")
	ErrVerificationInvalid  = apperr.New(apperr.KindValidation, 10108, "invalid or expired verification link")
	ErrAdminEmailNotAllowed = apperr.New(apperr.KindForbidden, 10109, "email is not on the admin allow-list")
)

// ── courses ──

var (
	ErrCourseFields     = apperr.New(apperr.KindValidation, 10201, "code, title and department are required")
	ErrCourseNotFound   = apperr.New(apperr.KindNotFound, 10202, "course not found")
	ErrImportUnreadable = apperr.New(apperr.KindValidation, 10203, "cannot read spreadsheet")
	ErrImportBadHeader  = apperr.New(apperr.KindValidation, 10204, "spreadsheet must have code, title and department columns")
	ErrImportNoData     = apperr.New(apperr.KindValidation, 10205, "spreadsheet has no data rows")
	ErrImportTooMany    = apperr.New(apperr.KindValidation, 10206, "spreadsheet has too many rows")
)

// ── enrollments ──

var (
	ErrEnrollCourseRequired = apperr.New(apperr.KindValidation, 10301, "courseId is required")
	ErrAlreadyEnrolled      = apperr.New(apperr.KindDuplicateEnrollment, 10302, "already enrolled in this course")
	ErrNotEnrolled          = apperr.New(apperr.KindNotFound, 10303, "not enrolled in this course")
)

// ── files ──

var (
	ErrNoFile       = apperr.New(apperr.KindMissingFile, 10401, "no file uploaded")
	ErrNoCourse     = apperr.New(apperr.KindMissingCourse, 10402, "courseId is required")
	ErrFileTooLarge = apperr.New(apperr.KindPayloadTooLarge, 10005, "file too large")
	ErrFileNotFound = apperr.New(apperr.KindNotFound, 10403, "file not found")
	ErrEmptyName    = apperr.New(apperr.KindEmptyName, 10404, "name cannot be empty")
	ErrNotFileOwner = apperr.New(apperr.KindForbidden, 10405, "you can only delete your own files")
	ErrNameTooLong  = apperr.New(apperr.KindValidation, 10406, "file name is longer than 255 characters")
)
