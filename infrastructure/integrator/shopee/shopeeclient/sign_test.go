package shopeeclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	t.Run("Chamada de loja inclui access token e shop id na base", func(t *testing.T) {
		sign := Sign(12345, "secretkey", "/api/v2/order/get_order_list", "tokenabc", "67890", 1700000000)
		assert.Equal(t, "626cad13e34bb918ac3d16ce6b034ca0eb0e0513e34cb710ccf86339301c3f9a", sign)
	})

	t.Run("Fluxo de token assina só partner, path e timestamp", func(t *testing.T) {
		sign := Sign(12345, "secretkey", "/api/v2/auth/access_token/get", "", "", 1700000000)
		assert.Equal(t, "89d68c853118818c44cb26daf704689bb249e7f07953f18431f5f8e2e55eae9a", sign)
	})
}
