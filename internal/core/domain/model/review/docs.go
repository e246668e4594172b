// Package review stores the rating a driver leaves on a delivered job.
package review
