package mutate

import (
	"strings"

	"threadcut/internal/store"
	"threadcut/internal/tree"
)

// Delete removes the element and its whole subtree in one batch. The subtree
// is taken from the tree as it stands right now. Unknown ids are a no-op.
func Delete(st *store.Store, targetID string) ([]string, error) {
	targetID = strings.TrimSpace(targetID)
	if st == nil || targetID == "" {
		return nil, nil
	}
	ids := tree.Build(st.All()).Subtree(targetID)
	if len(ids) == 0 {
		return nil, nil
	}
	st.RemoveMany(ids)
	return ids, nil
}
