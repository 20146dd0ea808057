package shopify

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractIDFromGID returns the numeric id of a GID such as "gid://shopify/Product/123"
func ExtractIDFromGID(gid string) (int64, error) {
	parts := strings.Split(gid, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID: %w", err)
	}

	return id, nil
}

// ProductGID builds the GID of a product from its numeric id
func ProductGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", id)
}
