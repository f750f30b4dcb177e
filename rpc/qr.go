package rpc

import (
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// GenerateQRCode renders data as a half-block QR code for the terminal
func GenerateQRCode(data string) string {
	if data == "" {
		return ""
	}
	var b strings.Builder
	qrterminal.GenerateHalfBlock(data, qrterminal.L, &b)
	return b.String()
}
