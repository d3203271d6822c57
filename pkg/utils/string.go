package utils

// TruncateString corta uma string no tamanho máximo da coluna correspondente.
// Os payloads dos marketplaces não têm garantia de tamanho.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
