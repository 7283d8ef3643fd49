package ocr

import (
	"github.com/otiai10/gosseract/v2"
)

// Tesseract is the Engine backed by libtesseract.
type Tesseract struct {
	Language string
}

func (t Tesseract) Text(path string, whitelist string, mode PageMode) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", err
	}
	if whitelist != "" {
		if err := client.SetWhitelist(whitelist); err != nil {
			return "", err
		}
	}
	switch mode {
	case ModeSingleBlock:
		_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	case ModeSparse:
		_ = client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT)
	}
	if err := client.SetImage(path); err != nil {
		return "", err
	}
	return client.Text()
}
