package shopeeclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sign gera a assinatura HMAC-SHA256 da Open API v2. Para chamadas de loja
// a base é partner_id + path + timestamp + access_token + shop_id; para o
// fluxo de token (sem access token) a base é só partner_id + path +
// timestamp.
func Sign(partnerID int64, partnerKey, path, accessToken, shopID string, timestamp int64) string {
	base := fmt.Sprintf("%d%s%d%s%s", partnerID, path, timestamp, accessToken, shopID)

	mac := hmac.New(sha256.New, []byte(partnerKey))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}
