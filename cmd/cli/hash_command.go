package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maiarpkg/maiar/internal/fingerprint"
)

const (
	hashCommandUseConstant              = "hash [json]"
	hashCommandShortDescriptionConstant = "Print the SHA-1 fingerprint of a JSON document"
	hashCommandLongDescriptionConstant  = "hash fingerprints the JSON document given as an argument, or read from standard input, the same way build environment reports are fingerprinted."
	hashDecodeErrorTemplateConstant     = "unable to decode JSON document: %w"
	hashReadErrorTemplateConstant       = "unable to read JSON document: %w"
)

type hashCommandBuilder struct {
	application *Application
}

func (builder *hashCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   hashCommandUseConstant,
		Short: hashCommandShortDescriptionConstant,
		Long:  hashCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}, nil
}

func (builder *hashCommandBuilder) run(command *cobra.Command, arguments []string) error {
	var documentReader io.Reader = command.InOrStdin()
	if len(arguments) == 1 {
		documentReader = strings.NewReader(arguments[0])
	}

	document, decodeError := decodeJSONDocument(documentReader)
	if decodeError != nil {
		return decodeError
	}

	documentHash, hashError := fingerprint.SHA1HashFromData(document)
	if hashError != nil {
		return hashError
	}

	_, writeError := fmt.Fprintln(command.OutOrStdout(), documentHash)
	return writeError
}

func decodeJSONDocument(documentReader io.Reader) (any, error) {
	documentContents, readError := io.ReadAll(documentReader)
	if readError != nil {
		return nil, fmt.Errorf(hashReadErrorTemplateConstant, readError)
	}

	decoder := json.NewDecoder(strings.NewReader(string(documentContents)))
	decoder.UseNumber()

	var document any
	if decodeError := decoder.Decode(&document); decodeError != nil {
		return nil, fmt.Errorf(hashDecodeErrorTemplateConstant, decodeError)
	}
	return document, nil
}
