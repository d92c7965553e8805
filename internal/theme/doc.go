// Package theme provides the CSS for bubble windows and the control window.
package theme
