// Package models defines the country row stored in the database and the
// request/response shapes of the HTTP API.
package models
