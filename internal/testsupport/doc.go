// Package testsupport provides shared fixtures for package tests: temp-rooted
// configs, generated images, and history stores.
package testsupport
