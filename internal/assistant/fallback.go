package assistant

import (
	"fmt"
	"strings"
)

type cannedReply struct {
	keywords []string
	reply    string
}

// cannedReplies are checked in order; the first keyword hit wins.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"prenot", "appuntament", "disponibil"},
		reply:    "Puoi prenotare lasciando i tuoi contatti nel modulo qui sotto: ti ricontattiamo noi per fissare giorno e orario.",
	},
	{
		keywords: []string{"prezz", "cost", "quanto viene", "tariff"},
		reply:    "Trovi durata e prezzo di ogni trattamento nella pagina dei servizi. Se hai dubbi, lasciaci un contatto e ti aiutiamo a scegliere.",
	},
	{
		keywords: []string{"orari", "apert", "chius"},
		reply:    "Riceviamo su appuntamento. Lasciaci un contatto e ti proponiamo l'orario più comodo per te.",
	},
	{
		keywords: []string{"regalo", "buono", "gift"},
		reply:    "Sì, puoi regalare un trattamento con un buono regalo. Scrivici tramite il modulo contatti e prepariamo tutto noi.",
	},
	{
		keywords: []string{"incinta", "gravidanza"},
		reply:    "In gravidanza proponiamo solo trattamenti dedicati e delicati. Ti consigliamo di sentire prima il tuo medico e poi di contattarci.",
	},
}

const genericReply = "Al momento non riesco a rispondere nel dettaglio. Raccontaci come ti senti nel modulo contatti e ti consiglieremo il rituale giusto per te."

// fallbackReply picks a canned answer, suggesting a treatment when the
// matcher recognises a symptom.
func fallbackReply(message string, matcher Matcher) string {
	lower := strings.ToLower(message)
	for _, canned := range cannedReplies {
		for _, kw := range canned.keywords {
			if strings.Contains(lower, kw) {
				return canned.reply
			}
		}
	}

	if matcher != nil {
		res := matcher.Match(message)
		for _, score := range res.Scores {
			if score > 0 {
				return fmt.Sprintf("Da quello che racconti, potrebbe farti bene il trattamento \"%s\". %s Se vuoi prenotarlo, lascia i tuoi contatti nel modulo.",
					res.Recommendation.Treatment, res.Recommendation.Reasoning)
			}
		}
	}
	return genericReply
}
