// Package service contains the application service layer, which
// orchestrates domain operations over the user store and the activity
// feed.
package service
