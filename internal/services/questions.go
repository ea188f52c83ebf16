package services

import "github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"

// defaultQuestions is the quiz template copied into every new session. Hosts
// customize the texts before the party; the shape (four options, 15 second
// budget) is what the clients expect.
func defaultQuestions() []models.Question {
	return []models.Question{
		{
			Text:         "Qual a nossa cidade natal?",
			Options:      models.StringList{"Fortaleza", "Sobral", "Caucaia", "Paraipaba"},
			CorrectIndex: 1,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Onde nos conhecemos?",
			Options:      models.StringList{"Na praia", "Na igreja", "Na faculdade", "Na internet"},
			CorrectIndex: 3,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Quantos anos de namoro fizemos este ano?",
			Options:      models.StringList{"3", "4", "5", "6"},
			CorrectIndex: 2,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Qual comida nós dois não gostamos?",
			Options:      models.StringList{"Amendoim", "Açaí", "Berinjela", "Repolho"},
			CorrectIndex: 0,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Qual foi o nosso primeiro emprego?",
			Options:      models.StringList{"Professor particular", "Vendedor", "Programador", "Entregador de panfletos"},
			CorrectIndex: 3,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Onde o bebê foi gerado, segundo os indícios?",
			Options:      models.StringList{"Fortaleza", "Barreirinhas", "Caucaia", "Paraipaba"},
			CorrectIndex: 1,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Qual foi o primeiro presente que o bebê ganhou?",
			Options:      models.StringList{"Par de meias", "Macacão", "Bolsa canguru", "Chocalho"},
			CorrectIndex: 0,
			TimeLimit:    15,
			Multiplier:   1,
		},
		{
			Text:         "Qual o nome das nossas gatas?",
			Options:      models.StringList{"Mel e Lua", "Sol e Estrela", "Sol e Lua", "Mel e Estrela"},
			CorrectIndex: 2,
			TimeLimit:    15,
			Multiplier:   1,
		},
	}
}
