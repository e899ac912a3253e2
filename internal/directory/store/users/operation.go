package users

import (
	"encoding/json"
	"fmt"
	"net/http"

	"phonebook/internal/directory/models"
)

// checkOperation rejects operations the store cannot apply, returning the
// per-item answer to send back.
func checkOperation(op models.BulkOperation) (models.BulkResult, bool) {
	res := models.BulkResult{ID: op.Body.ID, StatusCode: http.StatusBadRequest}
	switch {
	case op.Type != models.OperationUpsert:
		res.Message = fmt.Sprintf("unsupported operation %q", op.Type)
	case op.Body.ID == "":
		res.Message = "document id is required"
	case op.PartitionKey != op.Body.ID:
		res.Message = fmt.Sprintf("partition key %q does not match id %q", op.PartitionKey, op.Body.ID)
	default:
		return models.BulkResult{}, true
	}
	return res, false
}

func encode(rec models.UserRecord) ([]byte, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode user %s: %w", rec.ID, err)
	}
	return doc, nil
}
