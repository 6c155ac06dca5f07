package i18n

var english = map[string]string{
	"error.invalid_request":      "Invalid request",
	"error.invalid_request_body": "Invalid request body",
	"error.internal_error":       "An unexpected error occurred",
	"error.unauthorized":         "Unauthorized",
	"error.api_key_required":     "API key is required",
	"error.invalid_api_key":      "Invalid API key",
	"error.forbidden":            "Forbidden",
	"error.tenant_forbidden":     "You cannot access another company's data",
	"error.tenant_required":      "A company is required for this operation",
	"error.not_found":            "Not found",
	"error.rate_limit_exceeded":  "Too many requests, please try again later",
	"error.conflict":             "Conflict",
	"error.invalid_token":        "Invalid or expired token",
	"error.token_required":       "Authentication token is required",
	"error.timeout":              "The request timed out",
	"error.service_unavailable":  "Service temporarily unavailable",
	"error.idempotency_mismatch": "The Idempotency-Key was already used for a different request",

	"error.validation.dimensions": "height, length and width must be positive numbers",
	"error.validation.stock_item": "Invalid stock item",
	"error.validation.quantity":   "quantity must be a positive integer",
	"error.validation.log_window": "the time window must end after it starts",
	"error.stock_item_not_found":  "Stock item not found",
	"error.insufficient_stock":    "Insufficient stock",
	"error.negative_stock":        "Stock cannot become negative",
	"error.stock_unavailable":     "Stock could not be read",

	"success.stock_withdrawn": "Stock withdrawn successfully",
}

var french = map[string]string{
	"error.invalid_request":      "Requête invalide",
	"error.invalid_request_body": "Corps de requête invalide",
	"error.internal_error":       "Une erreur inattendue est survenue",
	"error.unauthorized":         "Non autorisé",
	"error.api_key_required":     "Une clé d'API est requise",
	"error.invalid_api_key":      "Clé d'API invalide",
	"error.forbidden":            "Interdit",
	"error.tenant_forbidden":     "Vous ne pouvez pas accéder aux données d'une autre entreprise",
	"error.tenant_required":      "Une entreprise est requise pour cette opération",
	"error.not_found":            "Introuvable",
	"error.rate_limit_exceeded":  "Trop de requêtes, veuillez réessayer plus tard",
	"error.conflict":             "Conflit",
	"error.invalid_token":        "Jeton invalide ou expiré",
	"error.token_required":       "Un jeton d'authentification est requis",
	"error.timeout":              "La requête a expiré",
	"error.service_unavailable":  "Service temporairement indisponible",
	"error.idempotency_mismatch": "La clé d'idempotence a déjà été utilisée pour une autre requête",

	"error.validation.dimensions": "hauteur, longueur et largeur doivent être positives",
	"error.validation.stock_item": "Article invalide",
	"error.validation.quantity":   "la quantité doit être un entier positif",
	"error.validation.log_window": "la période doit se terminer après son début",
	"error.stock_item_not_found":  "Article non trouvé",
	"error.insufficient_stock":    "Stock insuffisant",
	"error.negative_stock":        "Le stock ne peut pas devenir négatif",
	"error.stock_unavailable":     "Le stock n'a pas pu être lu",

	"success.stock_withdrawn": "Retrait de stock effectué",
}

var portuguese = map[string]string{
	"error.invalid_request":      "Requisição inválida",
	"error.invalid_request_body": "Corpo da requisição inválido",
	"error.internal_error":       "Ocorreu um erro inesperado",
	"error.unauthorized":         "Não autorizado",
	"error.api_key_required":     "Chave de API é obrigatória",
	"error.invalid_api_key":      "Chave de API inválida",
	"error.forbidden":            "Proibido",
	"error.tenant_forbidden":     "Você não pode acessar dados de outra empresa",
	"error.tenant_required":      "Uma empresa é obrigatória para esta operação",
	"error.not_found":            "Não encontrado",
	"error.rate_limit_exceeded":  "Muitas requisições, tente novamente mais tarde",
	"error.conflict":             "Conflito",
	"error.invalid_token":        "Token inválido ou expirado",
	"error.token_required":       "Token de autenticação é obrigatório",
	"error.timeout":              "A requisição expirou",
	"error.service_unavailable":  "Serviço temporariamente indisponível",
	"error.idempotency_mismatch": "A Idempotency-Key já foi usada em outra requisição",

	"error.validation.dimensions": "altura, comprimento e largura devem ser positivos",
	"error.validation.stock_item": "Item de estoque inválido",
	"error.validation.quantity":   "a quantidade deve ser um inteiro positivo",
	"error.validation.log_window": "o período deve terminar depois de começar",
	"error.stock_item_not_found":  "Item de estoque não encontrado",
	"error.insufficient_stock":    "Estoque insuficiente",
	"error.negative_stock":        "O estoque não pode ficar negativo",
	"error.stock_unavailable":     "Não foi possível ler o estoque",

	"success.stock_withdrawn": "Retirada de estoque concluída",
}

var dutch = map[string]string{
	"error.invalid_request":      "Ongeldig verzoek",
	"error.invalid_request_body": "Ongeldige aanvraag body",
	"error.internal_error":       "Er is een onverwachte fout opgetreden",
	"error.unauthorized":         "Niet geautoriseerd",
	"error.api_key_required":     "API-sleutel is vereist",
	"error.invalid_api_key":      "Ongeldige API-sleutel",
	"error.forbidden":            "Verboden",
	"error.tenant_forbidden":     "U heeft geen toegang tot gegevens van een ander bedrijf",
	"error.tenant_required":      "Een bedrijf is vereist voor deze bewerking",
	"error.not_found":            "Niet gevonden",
	"error.rate_limit_exceeded":  "Te veel verzoeken, probeer het later opnieuw",
	"error.conflict":             "Conflict",
	"error.invalid_token":        "Ongeldig of verlopen token",
	"error.token_required":       "Authenticatietoken is vereist",
	"error.timeout":              "Het verzoek is verlopen",
	"error.service_unavailable":  "Dienst tijdelijk niet beschikbaar",
	"error.idempotency_mismatch": "De Idempotency-Key is al gebruikt voor een ander verzoek",

	"error.validation.dimensions": "hoogte, lengte en breedte moeten positief zijn",
	"error.validation.stock_item": "Ongeldig voorraadartikel",
	"error.validation.quantity":   "hoeveelheid moet een positief geheel getal zijn",
	"error.validation.log_window": "het tijdvenster moet na het begin eindigen",
	"error.stock_item_not_found":  "Voorraadartikel niet gevonden",
	"error.insufficient_stock":    "Onvoldoende voorraad",
	"error.negative_stock":        "Voorraad kan niet negatief worden",
	"error.stock_unavailable":     "Voorraad kon niet worden gelezen",

	"success.stock_withdrawn": "Voorraad succesvol afgeboekt",
}
