// Package render displays robot configurations. Headless logs each frame;
// Terminal draws the skeleton in a bubbletea program.
package render
