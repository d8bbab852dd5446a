package models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Seed recreates the schema and loads the demo data set. Intended for
// development only: every table is dropped first.
func Seed(db *gorm.DB) error {
	if err := db.Migrator().DropTable(
		&Prescricao{}, &Exame{}, &Prontuario{}, &Consulta{},
		&Medico{}, &Paciente{}, &Usuario{},
	); err != nil {
		return err
	}
	if err := AutoMigrate(db); err != nil {
		return err
	}

	idMedicoCarlos := uint(1)
	usuarios := []Usuario{
		{Nome: "Administrador", Email: "admin@clinica.com", Role: RoleAdmin},
		{Nome: "Dr. Carlos Silva", Email: "carlos@clinica.com", Role: RoleMedico, IDReferencia: &idMedicoCarlos},
		{Nome: "Maria Recepcionista", Email: "maria@clinica.com", Role: RoleRecepcionista},
	}
	senhas := []string{"admin123", "medico123", "recep123"}
	for i := range usuarios {
		if err := usuarios[i].SetSenha(senhas[i]); err != nil {
			return err
		}
	}
	if err := db.Create(&usuarios).Error; err != nil {
		return err
	}
	log.Printf("Usuários criados: %d", len(usuarios))

	medicos := []Medico{
		{Nome: "Dr. Carlos Silva", CRM: "12345-SP", Especialidade: "Clínico Geral", Telefone: "(11) 98765-4321", Email: "carlos@clinica.com"},
		{Nome: "Dra. Ana Oliveira", CRM: "54321-SP", Especialidade: "Cardiologia", Telefone: "(11) 91234-5678", Email: "ana@clinica.com"},
	}
	if err := db.Create(&medicos).Error; err != nil {
		return err
	}
	log.Printf("Médicos criados: %d", len(medicos))

	pacientes := []Paciente{
		{Nome: "João Pereira", CPF: "123.456.789-00", DataNascimento: "1980-05-15", Telefone: "(11) 99876-5432", Email: "joao@email.com", Endereco: "Rua A, 123 - São Paulo/SP"},
		{Nome: "Maria Santos", CPF: "987.654.321-00", DataNascimento: "1990-10-20", Telefone: "(11) 98765-4321", Email: "maria@email.com", Endereco: "Av. B, 456 - São Paulo/SP"},
		{Nome: "Pedro Alves", CPF: "456.789.123-00", DataNascimento: "1975-03-25", Telefone: "(11) 97654-3210", Email: "pedro@email.com", Endereco: "Rua C, 789 - São Paulo/SP"},
	}
	if err := db.Create(&pacientes).Error; err != nil {
		return err
	}
	log.Printf("Pacientes criados: %d", len(pacientes))

	consultas := []Consulta{
		{IDPaciente: pacientes[0].ID, IDMedico: medicos[0].ID, DataConsulta: seedTime(2025, 6, 10, 9, 0), Status: ConsultaAgendada, Motivo: "Consulta de rotina"},
		{IDPaciente: pacientes[1].ID, IDMedico: medicos[1].ID, DataConsulta: seedTime(2025, 6, 10, 10, 0), Status: ConsultaAgendada, Motivo: "Dor no peito"},
		{IDPaciente: pacientes[2].ID, IDMedico: medicos[0].ID, DataConsulta: seedTime(2025, 6, 5, 14, 0), Status: ConsultaRealizada, Motivo: "Gripe"},
	}
	if err := db.Create(&consultas).Error; err != nil {
		return err
	}
	log.Printf("Consultas criadas: %d", len(consultas))

	prontuarios := []Prontuario{
		{IDPaciente: pacientes[2].ID, DataRegistro: seedTime(2025, 6, 5, 14, 30), Diagnostico: "Gripe comum",
			Observacoes: "Paciente apresentou sintomas de gripe. Recomendado repouso e hidratação."},
	}
	if err := db.Create(&prontuarios).Error; err != nil {
		return err
	}
	log.Printf("Prontuários criados: %d", len(prontuarios))

	exames := []Exame{
		{IDConsulta: consultas[2].ID, IDPaciente: pacientes[2].ID, TipoExame: "Hemograma",
			DataSolicitacao: seedTime(2025, 6, 5, 14, 30), Status: ExameConcluido,
			Resultado: "Resultados normais, sem alterações significativas."},
	}
	if err := db.Create(&exames).Error; err != nil {
		return err
	}
	log.Printf("Exames criados: %d", len(exames))

	prescricoes := []Prescricao{
		{IDConsulta: consultas[2].ID, IDPaciente: pacientes[2].ID, Medicamento: "Paracetamol", Dosagem: "500mg",
			Instrucoes: "Tomar 1 comprimido a cada 6 horas em caso de febre ou dor.",
			DataPrescricao: seedTime(2025, 6, 5, 14, 30)},
	}
	if err := db.Create(&prescricoes).Error; err != nil {
		return err
	}
	log.Printf("Prescrições criadas: %d", len(prescricoes))

	return nil
}

func seedTime(year, month, day, hour, min int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, 0, 0, time.Local)
}
