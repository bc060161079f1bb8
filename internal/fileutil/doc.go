// Package fileutil writes files so readers never observe partial content.
package fileutil
