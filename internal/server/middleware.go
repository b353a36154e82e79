package server

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// ZstdMiddleware decompresses zstd request bodies and compresses responses
// for clients that accept zstd. Whitelisted paths pass through untouched.
func ZstdMiddleware(whitelistedRoutes []string) fiber.Handler {
	if whitelistedRoutes == nil {
		whitelistedRoutes = []string{"/health"}
		log.Debug().
			Any("default", whitelistedRoutes).
			Msg("Whitelisted routes not specified, using default whitelist")
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		for _, route := range whitelistedRoutes {
			if path == route {
				return c.Next()
			}
		}

		if strings.ToLower(c.Get(fiber.HeaderContentEncoding)) == "zstd" {
			body := c.Body()
			if len(body) > 0 {
				decoder, err := zstd.NewReader(bytes.NewReader(body))
				if err != nil {
					log.Err(err).Msg("Failed to create zstd decoder")
					return c.Status(fiber.StatusBadRequest).JSON(
						createResponse(map[string]any{}, fmt.Errorf("failed to decompress zstd data: %w", err)))
				}
				defer decoder.Close()

				decompressed, err := io.ReadAll(decoder)
				if err != nil {
					log.Err(err).Msg("Failed to decompress request")
					return c.Status(fiber.StatusBadRequest).JSON(
						createResponse(map[string]any{}, fmt.Errorf("failed to decompress zstd data: %w", err)))
				}

				c.Request().SetBody(decompressed)
				log.Trace().Msg("Request body decompressed")
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		if !strings.Contains(strings.ToLower(c.Get(fiber.HeaderAcceptEncoding)), "zstd") {
			return nil
		}

		responseBody := c.Response().Body()
		if len(responseBody) == 0 {
			return nil
		}

		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			log.Err(err).Msg("Failed to create zstd encoder")
			return nil
		}
		defer encoder.Close()

		compressed := encoder.EncodeAll(responseBody, nil)
		c.Response().SetBody(compressed)
		c.Set(fiber.HeaderContentEncoding, "zstd")
		c.Set(fiber.HeaderContentLength, fmt.Sprintf("%d", len(compressed)))

		log.Trace().
			Int("original_size", len(responseBody)).
			Int("compressed_size", len(compressed)).
			Msg("Response body compressed")

		return nil
	}
}
