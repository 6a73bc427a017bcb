package diagnostic

// DefaultTables returns the built-in rule and prescription tables used until
// an override is loaded.
func DefaultTables() Tables {
	return Tables{
		Rules: []Rule{
			{
				Category: CategoryPietra,
				Keywords: []string{"spalle", "collo", "cervical", "rigid", "contratt", "schiena", "bloccat"},
				Weight:   2,
			},
			{
				Category: CategoryEsaurimento,
				Keywords: []string{"stanch", "esaust", "sfinit", "croll", "spossat", "senza energia", "svuotat"},
				Weight:   3,
			},
			{
				Category: CategoryTempesta,
				Keywords: []string{"ansia", "ansios", "agitat", "stress", "pensieri", "insonni", "nervos"},
				Weight:   2,
			},
			{
				Category: CategoryPesantezza,
				Keywords: []string{"gambe", "gonfi", "pesant", "ritenzione", "cellulite", "circolazione", "caviglie"},
				Weight:   2,
			},
		},
		Prescriptions: PrescriptionTable{
			CategoryPietra: {
				{
					Treatment: "Massaggio Decontratturante Profondo",
					Reasoning: "Le tue spalle portano un peso che non è tuo. Lavoriamo sui nodi muscolari per restituire mobilità a collo e schiena.",
					Oil:       "Arnica e Lavanda",
				},
				{
					Treatment: "Rituale Pietre Calde",
					Reasoning: "Il calore delle pietre basaltiche scioglie le rigidità più ostinate e invita il corpo a lasciare andare.",
					Oil:       "Rosmarino e Canfora",
				},
			},
			CategoryEsaurimento: {
				{
					Treatment: "Rituale Rigenerante Abhyanga",
					Reasoning: "Sei in riserva. Un massaggio lento e avvolgente per nutrire il sistema nervoso e ritrovare energia.",
					Oil:       "Sesamo e Vaniglia",
				},
				{
					Treatment: "Massaggio Californiano Avvolgente",
					Reasoning: "Movimenti lunghi e fluidi per ricaricare corpo e mente quando ti senti svuotata.",
					Oil:       "Arancio Dolce e Neroli",
				},
			},
			CategoryTempesta: {
				{
					Treatment: "Trattamento Testa e Viso Calmante",
					Reasoning: "La mente corre più veloce del corpo. Rallentiamo il respiro partendo da testa, viso e cuoio capelluto.",
					Oil:       "Camomilla e Bergamotto",
				},
				{
					Treatment: "Massaggio Ayurvedico Shirodhara",
					Reasoning: "Un filo d'olio tiepido sulla fronte per placare i pensieri e preparare un sonno profondo.",
					Oil:       "Sandalo e Lavanda",
				},
			},
			CategoryPesantezza: {
				{
					Treatment: "Linfodrenaggio Manuale",
					Reasoning: "Gambe pesanti e gonfiore chiedono leggerezza. Manovre delicate per riattivare la circolazione.",
					Oil:       "Cipresso e Limone",
				},
				{
					Treatment: "Massaggio Drenante Gambe Leggere",
					Reasoning: "Un ritmo deciso dal basso verso l'alto per sgonfiare caviglie e polpacci.",
					Oil:       "Ginepro e Menta",
				},
			},
		},
	}
}
