package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rozo-ai/bananary-go/pkg/imagedit"
	"github.com/rozo-ai/bananary-go/pkg/x402"
)

var (
	flagPrompt    string
	flagMask      string
	flagSecondary string
	flagOutput    string
)

var transformCmd = &cobra.Command{
	Use:   "transform <image>",
	Short: "Transform a photo with a free-text instruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, cfg, err := newService()
		if err != nil {
			return err
		}

		primary, err := readImage(args[0])
		if err != nil {
			return err
		}

		var mask []byte
		if flagMask != "" {
			mask, err = os.ReadFile(flagMask)
			if err != nil {
				return fmt.Errorf("read mask: %w", err)
			}
		}

		var secondary *imagedit.Image
		if flagSecondary != "" {
			img, err := readImage(flagSecondary)
			if err != nil {
				return err
			}
			secondary = &img
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		result, err := service.Edit(ctx, primary, flagPrompt, mask, secondary)
		if err != nil {
			if x402.IsKind(err, x402.KindPaymentRequiredNoSigner) {
				return fmt.Errorf("%w\nSet EVM_PRIVATE_KEY to enable payments, or pass --stellar with an access token", err)
			}
			return err
		}

		if result.Text != "" {
			fmt.Println(result.Text)
		}
		if result.ImageURL != "" {
			if err := writeImageURL(result.ImageURL, flagOutput); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	transformCmd.Flags().StringVarP(&flagPrompt, "prompt", "p", "", "transformation instruction")
	transformCmd.Flags().StringVar(&flagMask, "mask", "", "PNG mask limiting the edit to a region")
	transformCmd.Flags().StringVar(&flagSecondary, "secondary", "", "second input image for dual-image transformations")
	transformCmd.Flags().StringVarP(&flagOutput, "output", "o", "out.png", "output file for the produced image")
	_ = transformCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(transformCmd)
}

func readImage(path string) (imagedit.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return imagedit.Image{}, fmt.Errorf("read image: %w", err)
	}
	return imagedit.Image{
		Data:     data,
		MimeType: http.DetectContentType(data),
	}, nil
}

// writeImageURL stores the produced image. Inline data URLs are
// decoded to disk; remote URLs are printed for the user to fetch.
func writeImageURL(imageURL, output string) error {
	if !strings.HasPrefix(imageURL, "data:") {
		fmt.Println(imageURL)
		return nil
	}

	_, encoded, found := strings.Cut(imageURL, ";base64,")
	if !found {
		return fmt.Errorf("unsupported data URL encoding")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode image data: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	fmt.Println("wrote", output)
	return nil
}
