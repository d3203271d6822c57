package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// GenerateID gera um identificador curto para jobs de sincronização. O
// gerador só falha com alfabeto vazio ou tamanho inválido, ambos fixos aqui.
func GenerateID() string {
	id, _ := gonanoid.Generate(characters, idLength)
	return id
}
