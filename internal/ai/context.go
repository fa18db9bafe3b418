package ai

import "github.com/rizecleaning/clara/internal/conversation"

// historyWindow caps how many recent turns ride along with each completion.
const historyWindow = 10

const systemPrompt = `Eres Clara, la asistente virtual de Rize Professional Cleaning, un negocio de limpieza profesional.

INFORMACIÓN SOBRE LA EMPRESA:
- Servicios: Limpieza residencial, comercial, post-construcción, y mantenimiento
- Horarios: Lunes a Viernes 8:00 AM - 6:00 PM, Sábados 9:00 AM - 3:00 PM
- Contacto: Disponible para cotizaciones gratuitas
- Especialidades: Limpieza profunda, desinfección, limpieza ecológica

INSTRUCCIONES:
1. Responde de manera profesional y amigable
2. Proporciona información útil sobre servicios de limpieza
3. Si no tienes información específica, ofrece contactar para más detalles
4. Mantén las respuestas concisas pero informativas
5. Siempre enfócate en ayudar al cliente`

// BuildContext assembles the model input for one completion: the fixed
// system instruction followed by the newest turns, oldest first.
func BuildContext(c *conversation.Conversation) []conversation.Message {
	msgs := make([]conversation.Message, 0, historyWindow+1)
	msgs = append(msgs, conversation.Message{Role: conversation.RoleSystem, Content: systemPrompt})
	return append(msgs, c.Window(historyWindow)...)
}
