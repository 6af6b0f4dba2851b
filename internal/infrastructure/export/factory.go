package export

import (
	"github.com/invoicer/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRenderer builds the renderer selected in configuration
func NewRenderer(cfg config.ExportConfig, logger *zap.Logger) (Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Renderer {
	case config.RendererChrome:
		engine, err := NewTemplateEngine()
		if err != nil {
			return nil, err
		}
		logger.Info("Invoice export uses headless Chrome", zap.Bool("remote", cfg.ChromeURL != ""))
		return NewChromedpRenderer(engine, ChromedpConfig{
			RemoteURL: cfg.ChromeURL,
			Timeout:   cfg.Timeout,
			NoSandbox: true,
			Logger:    logger.Named("chromedp"),
		}), nil
	default:
		logger.Info("Invoice export uses native gofpdf renderer")
		return NewGofpdfRenderer(), nil
	}
}
