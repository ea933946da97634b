package booking

import "fmt"

// RouteHome は予約完了後に遷移する画面です
const RouteHome = "Home"

// Dialog はユーザーに表示するブロッキングなメッセージです
type Dialog struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// 画面に表示する文言はアプリと同じポルトガル語です
var (
	DialogRangeIncomplete = Dialog{
		Title:   "Selecione as datas",
		Message: "Por favor, escolha o período de hospedagem (Check-in e Check-out).",
	}
	DialogPetNotSelected = Dialog{
		Title:   "Selecione um pet",
		Message: "Por favor, selecione qual pet será hospedado.",
	}
	DialogIncompleteData = Dialog{
		Title:   "Erro",
		Message: "Dados incompletos para realizar a reserva.",
	}
	DialogReservationFailed = Dialog{
		Title:   "Erro",
		Message: "Não foi possível realizar a reserva. Tente novamente.",
	}
	DialogPetLoadFailed = Dialog{
		Title:   "Erro",
		Message: "Não foi possível carregar seus pets.",
	}
)

// SuccessDialog は予約受付時のメッセージを作成します
func SuccessDialog(storeName, serviceName string) Dialog {
	return Dialog{
		Title:   "Reserva Solicitada!",
		Message: fmt.Sprintf("Sua estadia no %s (%s) foi solicitada com sucesso! Aguarde a confirmação.", storeName, serviceName),
	}
}
