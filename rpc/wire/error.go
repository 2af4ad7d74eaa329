package wire

import (
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// errorTypePrefix is the namespace DynamoDB prefixes error codes with. The
// SDK strips everything up to the '#' before matching the code.
const errorTypePrefix = "com.amazonaws.dynamodb.v20120810#"

// ErrorResponse is the wire form of a failed operation. The Item field is
// only populated for ConditionalCheckFailedException.
type ErrorResponse struct {
	Type    string                    `json:"__type"`
	Message string                    `json:"message,omitempty"`
	Item    map[string]AttributeValue `json:"Item,omitempty"`
}

// EncodeError maps a backend error onto its wire representation and HTTP
// status code. Modeled client errors become 400 responses with their error
// code; anything unrecognized becomes a 500 InternalServerError.
func EncodeError(err error) (int, ErrorResponse) {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypePrefix + ccf.ErrorCode(),
			Message: ccf.ErrorMessage(),
			Item:    EncodeItem(ccf.Item),
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadRequest
		if apiErr.ErrorFault() == smithy.FaultServer {
			status = http.StatusInternalServerError
		}
		return status, ErrorResponse{
			Type:    errorTypePrefix + apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Type:    errorTypePrefix + "InternalServerError",
		Message: err.Error(),
	}
}
