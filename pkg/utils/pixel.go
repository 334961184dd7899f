package utils

import "encoding/base64"

// GIF transparente de 1x1 servido pelo pixel de rastreamento de abertura
const transparentGIFBase64 = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

var transparentGIF []byte

func init() {
	transparentGIF, _ = base64.StdEncoding.DecodeString(transparentGIFBase64)
}

// TrackingPixel retorna os bytes fixos do GIF 1x1 transparente
func TrackingPixel() []byte {
	return transparentGIF
}
