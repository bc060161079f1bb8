// Package testsupport builds throwaway configurations and script databases
// for package tests.
package testsupport
